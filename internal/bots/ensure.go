package bots

import (
	"context"

	"github.com/pkg/errors"

	"Tradle/internal/model"
	"Tradle/internal/store"
)

// Ensure writes the leaderboard of count bots for ch unless the day already
// has one. It reports whether entries were written. A count of zero or less
// disables seeding; losing an insert race to another writer is not an error.
func Ensure(ctx context.Context, st store.BotStore, ch *model.Challenge, count int) (Stats, bool, error) {
	if count <= 0 {
		return Stats{}, false, nil
	}
	existing, err := st.BotsForDay(ctx, ch.Day)
	if err != nil {
		return Stats{}, false, errors.Wrapf(err, "bots for day %d", ch.Day)
	}
	if len(existing) > 0 {
		return Stats{}, false, nil
	}

	entries, stats := Generate(ch, count)
	if err := st.InsertBots(ctx, entries); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return Stats{}, false, nil
		}
		return Stats{}, false, errors.Wrapf(err, "insert bots for day %d", ch.Day)
	}
	return stats, true, nil
}
