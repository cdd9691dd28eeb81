package coinpaprika

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alanyoungcy/fundingscan/internal/fetch"
	"github.com/alanyoungcy/fundingscan/internal/ratelimit"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := fetch.New(ProviderName, ratelimit.New(1000, 0), fetch.Config{MaxRetries: 1}, logger)
	return New(Config{BaseURL: baseURL}, fetcher, logger)
}

func TestTickersDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[
			{"symbol": "BTC", "quotes": {"USD": {"price": 43000, "volume_24h": 18000000000, "market_cap": 840000000000, "percent_change_24h": 2.1}}},
			{"symbol": "XYZ", "quotes": {}}
		]`)
	}))
	defer srv.Close()

	ds := newTestClient(t, srv.URL).Tickers(context.Background())
	btc, ok := ds.Lookup("BTC")
	if !ok {
		t.Fatal("expected a BTC record")
	}
	if btc.Volume24h == nil || *btc.Volume24h != 18_000_000_000 {
		t.Errorf("wrong volume: %v", btc.Volume24h)
	}
	if btc.PriceChangePct24h == nil || *btc.PriceChangePct24h != 2.1 {
		t.Errorf("wrong price change: %v", btc.PriceChangePct24h)
	}
	// A ticker without a USD quote block contributes nothing.
	if _, ok := ds.Lookup("XYZ"); ok {
		t.Error("expected XYZ to be skipped")
	}
}

func TestTickersFirstOccurrenceWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"symbol": "BTC", "quotes": {"USD": {"volume_24h": 111}}},
			{"symbol": "btc", "quotes": {"USD": {"volume_24h": 999}}}
		]`)
	}))
	defer srv.Close()

	ds := newTestClient(t, srv.URL).Tickers(context.Background())
	btc, ok := ds.Lookup("BTC")
	if !ok {
		t.Fatal("expected a BTC record")
	}
	if btc.Volume24h == nil || *btc.Volume24h != 111 {
		t.Errorf("expected the rank-1 duplicate to win, got %v", btc.Volume24h)
	}
}
