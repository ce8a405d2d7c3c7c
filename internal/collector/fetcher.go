package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"Tradle/internal/model"
)

// MinRows is the fewest daily rows a fetch may return and still be used.
const MinRows = 50

var (
	ErrHTTPStatus       = errors.New("unexpected http status")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrInsufficientRows = errors.New("insufficient price rows")
	ErrRateLimited      = errors.New("rate limited")
)

// Fetcher retrieves daily bars for symbol between start and end inclusive,
// ordered oldest first.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.RawPricePoint, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// statusError maps an HTTP status to one of the package sentinels.
func statusError(source string, code int, body []byte) error {
	switch code {
	case http.StatusNotFound:
		return errors.Wrapf(ErrSymbolNotFound, "%s: status %d", source, code)
	case http.StatusTooManyRequests:
		return errors.Wrapf(ErrRateLimited, "%s: status %d", source, code)
	default:
		return errors.Wrapf(ErrHTTPStatus, "%s: status %d, body: %s", source, code, string(body))
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
