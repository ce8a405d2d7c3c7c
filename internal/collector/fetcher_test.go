package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	winStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	winEnd   = time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
)

func TestTiingoFetcher_Fetch(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `[
			{"date":"2020-01-03T00:00:00.000Z","open":2,"high":3,"low":1,"close":2.5,"volume":200},
			{"date":"2020-01-06T00:00:00.000Z","open":2,"high":3,"low":1,"close":0,"volume":0},
			{"date":"2020-01-02T00:00:00.000Z","open":1,"high":2,"low":0.5,"close":1.5,"volume":100}
		]`)
	}))
	defer srv.Close()

	f := NewTiingoFetcher(srv.URL, "secret", "")
	bars, err := f.Fetch(context.Background(), "AAPL", winStart, winEnd)
	require.NoError(t, err)

	assert.Equal(t, "/AAPL/prices", gotPath)
	assert.Contains(t, gotQuery, "startDate=2020-01-01")
	assert.Contains(t, gotQuery, "endDate=2020-12-31")
	assert.Contains(t, gotQuery, "token=secret")

	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 1.5, bars[0].Close)
	assert.Equal(t, 2.5, bars[1].Close)
	assert.Equal(t, 200.0, bars[1].Volume)
}

func TestTiingoFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"detail":"Error: Ticker 'ZZZ' not found"}`, ErrSymbolNotFound},
		{"rate limited", http.StatusTooManyRequests, `{}`, ErrRateLimited},
		{"server error", http.StatusInternalServerError, `oops`, ErrHTTPStatus},
		{"empty", http.StatusOK, `[]`, ErrSymbolNotFound},
		{"object body", http.StatusOK, `{"detail":"bad"}`, ErrSymbolNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewTiingoFetcher(srv.URL, "k", "").Fetch(context.Background(), "ZZZ", winStart, winEnd)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestYahooFetcher_Fetch(t *testing.T) {
	d1 := time.Date(2020, 1, 2, 14, 30, 0, 0, time.UTC).Unix()
	d2 := time.Date(2020, 1, 3, 14, 30, 0, 0, time.UTC).Unix()
	d3 := time.Date(2020, 1, 6, 14, 30, 0, 0, time.UTC).Unix()
	d4 := time.Date(2020, 1, 7, 14, 30, 0, 0, time.UTC).Unix()

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprintf(w, `{"chart":{"result":[{"timestamp":[%d,%d,%d,%d],"indicators":{"quote":[{
			"open":[1,null,3,4],"high":[2,null,4,5],"low":[0.5,null,2,3],"close":[1.5,null,3.5,null],"volume":[100,null,300,400]
		}]}}],"error":null}}`, d1, d2, d3, d4)
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	bars, err := f.Fetch(context.Background(), "BRK.B", winStart, winEnd)
	require.NoError(t, err)

	assert.Equal(t, "/BRK-B", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, fmt.Sprintf("period1=%d", winStart.Unix()))
	assert.Contains(t, gotQuery, fmt.Sprintf("period2=%d", winEnd.AddDate(0, 0, 1).Unix()))

	require.Len(t, bars, 2, "null and close-less bars skipped")
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 3.5, bars[1].Close)
}

func TestYahooFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").Fetch(context.Background(), "ZZZ", winStart, winEnd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSymbolNotFound))
	assert.True(t, strings.Contains(err.Error(), "delisted"))
}

func TestYahooFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewYahooFetcher(srv.URL, "").Fetch(context.Background(), "AAPL", winStart, winEnd)
	assert.True(t, errors.Is(err, ErrHTTPStatus))
}
