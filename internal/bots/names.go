package bots

import (
	"fmt"

	"Tradle/internal/random"
)

var (
	firstNames = []string{
		"Alex", "Jordan", "Morgan", "Casey", "Taylor", "Riley", "Jamie", "Dakota",
		"Avery", "Quinn", "Blake", "Cameron", "Skyler", "Reese", "Peyton", "Parker",
		"Drew", "Kai", "River", "Sage", "Charlie", "Sam", "Phoenix", "Rory",
		"Emerson", "Finley", "Hayden", "Logan", "Rowan", "Elliott", "Marcus", "Nina",
		"Leo", "Zara", "Ethan", "Mia", "Lucas", "Emma", "Oliver", "Sofia",
		"Noah", "Ava", "Liam", "Mason", "Grace", "Henry", "Chloe", "Owen",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Martinez", "Lee", "Chen", "Patel", "Kumar", "Wong", "Singh", "Kim",
		"Nguyen", "Cohen", "Lopez", "Wilson", "Anderson", "Moore", "Jackson", "Martin",
		"Thompson", "White", "Harris", "Clark", "Walker", "Hall", "Young", "King",
		"Wright", "Scott", "Green", "Baker", "Adams", "Nelson", "Carter", "Mitchell",
	}
	usernameWords = []string{
		"shadow", "dark", "silent", "thunder", "fire", "ice", "storm", "night",
		"moon", "star", "sky", "cloud", "wolf", "lion", "tiger", "bear",
		"fox", "eagle", "hawk", "dragon", "ninja", "knight", "ghost", "cyber",
		"cosmic", "pixel", "neon", "retro", "epic", "mega", "ultra", "legend",
		"hero", "ace", "pro", "chief", "blue", "red", "gold", "silver",
		"crimson", "azure", "lucky", "wild", "chill", "zen", "fierce", "swift",
	}
	gamingWords = []string{
		"gamer", "player", "noob", "veteran", "champion", "winner", "beast", "sniper",
		"tank", "mage", "ranger", "rogue", "hunter", "slayer", "crusher", "warlord",
		"overlord", "supreme", "elite", "alpha",
	}
	casualNames = []string{
		"mike", "sarah", "john", "lisa", "dave", "emma", "tom", "kate",
		"brian", "anna", "chris", "julia", "matt", "amy", "rob", "jen",
		"steve", "laura", "paul", "maria", "dan", "mark", "sophie", "eric",
		"ryan", "kevin", "hannah", "jake", "zoe", "adam", "lily", "ben",
		"nick", "luke", "kyle", "tyler", "connor", "shane", "travis", "alex",
	}
	nouns = []string{
		"potato", "banana", "pickle", "waffle", "taco", "burrito", "pizza", "cookie",
		"panda", "koala", "penguin", "octopus", "narwhal", "unicorn", "llama", "dino",
		"wizard", "robot", "pirate", "zombie", "alien", "astronaut", "samurai", "viking",
	}
	adjectives = []string{
		"cool", "epic", "mega", "super", "hyper", "turbo", "ultra", "mini",
		"tiny", "big", "giant", "quick", "fast", "slow", "lazy", "happy",
		"grumpy", "calm", "wild", "hot", "cold", "smart", "clever", "silly",
		"goofy", "random", "weird", "odd",
	}
	nameSuffixes = []string{"pa", "la", "ma", "da", "ra", "ka", "ta", "na", "sa", "wa"}
)

func pick(rng *random.Seeded, words []string) string {
	return words[rng.NextInt(0, len(words)-1)]
}

// DisplayName draws a plausible internet handle.
func DisplayName(rng *random.Seeded) string {
	kind := rng.Next()
	switch {
	case kind < 0.04:
		return pick(rng, firstNames) + " " + pick(rng, lastNames)
	case kind < 0.07:
		return fmt.Sprintf("%s %c.", pick(rng, firstNames), pick(rng, lastNames)[0])
	case kind < 0.35:
		return casualHandle(rng)
	case kind < 0.50:
		w1, w2 := pick(rng, usernameWords), pick(rng, usernameWords)
		switch style := rng.Next(); {
		case style < 0.75:
			return w1 + w2
		case style < 0.85:
			return fmt.Sprintf("%s%s%d", w1, w2, rng.NextInt(1, 99))
		default:
			return w1 + "_" + w2
		}
	case kind < 0.62:
		adj, noun := pick(rng, adjectives), pick(rng, nouns)
		switch style := rng.Next(); {
		case style < 0.70:
			return adj + noun
		case style < 0.85:
			return fmt.Sprintf("%s%s%d", adj, noun, rng.NextInt(1, 999))
		default:
			return adj + "_" + noun
		}
	case kind < 0.70:
		return gamingHandle(rng)
	case kind < 0.77:
		name, word := pick(rng, casualNames), pick(rng, usernameWords)
		if rng.Next() < 0.85 {
			return name + word
		}
		return name + "_" + word
	default:
		all := make([]string, 0, len(usernameWords)+len(nouns)+len(gamingWords))
		all = append(append(append(all, usernameWords...), nouns...), gamingWords...)
		word := pick(rng, all)
		if rng.Next() < 0.35 {
			return word
		}
		return fmt.Sprintf("%s%d", word, rng.NextInt(1, 9999))
	}
}

func casualHandle(rng *random.Seeded) string {
	base := pick(rng, casualNames)
	switch format := rng.Next(); {
	case format < 0.30:
		return fmt.Sprintf("%s%d", base, rng.NextInt(1, 99))
	case format < 0.35:
		return fmt.Sprintf("%s_%c", base, 'a'+rune(rng.NextInt(0, 25)))
	case format < 0.60:
		return base + pick(rng, nameSuffixes)
	case format < 0.85:
		// two-digit birth year, 85..09
		year := rng.NextInt(85, 109)
		return fmt.Sprintf("%s%02d", base, year%100)
	default:
		return base
	}
}

func gamingHandle(rng *random.Seeded) string {
	word := pick(rng, gamingWords)
	switch style := rng.Next(); {
	case style < 0.35:
		return "xX" + word + "Xx"
	case style < 0.70:
		return fmt.Sprintf("%s%d", word, rng.NextInt(1, 999))
	case style < 0.90:
		prefix := "The"
		if rng.Next() < 0.5 {
			prefix = "Pro"
		}
		return prefix + word
	default:
		return word + pick(rng, gamingWords)
	}
}
