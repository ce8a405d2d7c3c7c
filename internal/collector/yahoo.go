package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"Tradle/internal/model"
)

const DefaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps catalog ticker to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"BRK.B": "BRK-B",
			"BF.B":  "BF-B",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

// Fetch pulls daily bars between start and end. period2 is exclusive on
// Yahoo's side, so the window is widened by one day.
func (f *YahooFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.RawPricePoint, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(dateOnly(start).Unix()))
	q.Set("period2", fmt.Sprint(dateOnly(end).AddDate(0, 0, 1).Unix()))
	u := fmt.Sprintf("%s/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("yahoo", resp.StatusCode, body)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrap(err, "yahoo decode")
	}
	if chart.Chart.Error != nil {
		if strings.EqualFold(chart.Chart.Error.Code, "Not Found") {
			return nil, errors.Wrapf(ErrSymbolNotFound, "yahoo: %s", chart.Chart.Error.Description)
		}
		return nil, errors.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.Wrapf(ErrSymbolNotFound, "yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.RawPricePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if c <= 0 {
			continue // null or partial bar (holidays, halts)
		}
		bars = append(bars, model.RawPricePoint{
			Date:   dateOnly(time.Unix(ts, 0).UTC()),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
