package assembler

const (
	DefaultMaxStocks      = 10
	DefaultRangesPerStock = 5
	DefaultMaxTotal       = 50
)

// Candidate is one (stock, date range) pair to try. A Fallback candidate
// follows each stock's ranges and carries the fixed fallback window; it is
// only worth trying when none of that stock's generated ranges were valid.
type Candidate struct {
	Stock     int
	Range     int
	StockSeed int64
	RangeSeed int64
	Fallback  bool
}

// Candidates lists the pairs derived from seed in the order they are tried.
// maxTotal bounds the generated-range candidates; fallback candidates do not
// count against it.
func Candidates(seed int64, maxStocks, rangesPerStock, maxTotal int) []Candidate {
	var out []Candidate
	total := 0
	for s := 0; s < maxStocks && total < maxTotal; s++ {
		stockSeed := seed + int64(s)
		for r := 0; r < rangesPerStock && total < maxTotal; r++ {
			out = append(out, Candidate{
				Stock:     s,
				Range:     r,
				StockSeed: stockSeed,
				RangeSeed: seed + int64(s*rangesPerStock+r),
			})
			total++
		}
		out = append(out, Candidate{Stock: s, Range: -1, StockSeed: stockSeed, Fallback: true})
	}
	return out
}
