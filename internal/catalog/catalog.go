// Package catalog holds the symbol directory challenges are drawn from.
package catalog

import (
	_ "embed"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"Tradle/internal/model"
	"Tradle/internal/random"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// ErrEmpty is returned when a catalog has no usable entries.
var ErrEmpty = errors.New("catalog: no symbols")

// Catalog is a static, ordered list of symbols.
type Catalog struct {
	symbols []model.Symbol
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML list of symbols. Entries without a ticker are dropped.
func Parse(data []byte) (*Catalog, error) {
	var raw []model.Symbol
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	symbols := make([]model.Symbol, 0, len(raw))
	for _, s := range raw {
		s.Ticker = strings.TrimSpace(strings.ToUpper(s.Ticker))
		if s.Ticker == "" {
			continue
		}
		if s.Name == "" {
			s.Name = s.Ticker
		}
		symbols = append(symbols, s)
	}
	if len(symbols) == 0 {
		return nil, ErrEmpty
	}
	return &Catalog{symbols: symbols}, nil
}

// New builds a catalog from an in-memory list.
func New(symbols []model.Symbol) *Catalog {
	cp := make([]model.Symbol, len(symbols))
	copy(cp, symbols)
	return &Catalog{symbols: cp}
}

// List returns a copy of all symbols in catalog order.
func (c *Catalog) List() []model.Symbol {
	cp := make([]model.Symbol, len(c.symbols))
	copy(cp, c.symbols)
	return cp
}

// Len is the number of symbols.
func (c *Catalog) Len() int { return len(c.symbols) }

// Select picks the symbol for seed.
func (c *Catalog) Select(seed int64) (model.Symbol, error) {
	return Select(c.symbols, seed)
}

// Select returns symbols[floor(SinFraction(seed) * len)].
func Select(symbols []model.Symbol, seed int64) (model.Symbol, error) {
	if len(symbols) == 0 {
		return model.Symbol{}, ErrEmpty
	}
	idx := int(math.Floor(random.SinFraction(seed) * float64(len(symbols))))
	if idx >= len(symbols) {
		idx = len(symbols) - 1
	}
	return symbols[idx], nil
}
