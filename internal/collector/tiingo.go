package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"

	"Tradle/internal/model"
)

const DefaultTiingoURL = "https://api.tiingo.com/tiingo/daily"

// TiingoFetcher implements Fetcher using the Tiingo end-of-day prices API.
type TiingoFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewTiingoFetcher creates a new fetcher with optional proxy support.
func NewTiingoFetcher(baseURL, apiKey, proxyURL string) *TiingoFetcher {
	if baseURL == "" {
		baseURL = DefaultTiingoURL
	}
	return &TiingoFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *TiingoFetcher) Name() string { return "tiingo" }

// tiingoBar is one element of the prices response.
type tiingoBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func (f *TiingoFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.RawPricePoint, error) {
	q := url.Values{}
	q.Set("startDate", model.DateKey(start))
	q.Set("endDate", model.DateKey(end))
	q.Set("token", f.APIKey)
	endpoint := fmt.Sprintf("%s/%s/prices?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tiingo fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "tiingo read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("tiingo", resp.StatusCode, body)
	}

	var raw []tiingoBar
	if err := json.Unmarshal(body, &raw); err != nil {
		// Tiingo answers unknown tickers with an object, not an array.
		return nil, errors.Wrapf(ErrSymbolNotFound, "tiingo decode %s: %v", symbol, err)
	}
	if len(raw) == 0 {
		return nil, errors.Wrapf(ErrSymbolNotFound, "tiingo: no rows for %s", symbol)
	}

	bars := make([]model.RawPricePoint, 0, len(raw))
	for _, b := range raw {
		if b.Close <= 0 {
			continue
		}
		day, err := parseTiingoDate(b.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "tiingo date %q", b.Date)
		}
		bars = append(bars, model.RawPricePoint{
			Date:   day,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func parseTiingoDate(s string) (time.Time, error) {
	if len(s) < len(time.DateOnly) {
		return time.Time{}, errors.New("date too short")
	}
	return time.Parse(time.DateOnly, s[:len(time.DateOnly)])
}
