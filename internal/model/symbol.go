package model

// Symbol is a catalog entry.
type Symbol struct {
	Ticker   string `yaml:"symbol" json:"symbol"`
	Name     string `yaml:"name" json:"name"`
	Sector   string `yaml:"sector,omitempty" json:"sector,omitempty"`
	WikiLink string `yaml:"wiki_link,omitempty" json:"wiki_link,omitempty"`
	InfoLink string `yaml:"stock_link,omitempty" json:"stock_link,omitempty"`
}
