package coinglass

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
	window := ratelimit.New(1000, 0)
	fetcher := fetch.New(ProviderName, window, fetch.Config{MaxRetries: 1}, logger)
	return New(Config{BaseURL: baseURL, APIKey: "test-key"}, fetcher, logger)
}

func TestFundingRatesDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/futures/funding-rates/exchange-list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("CG-API-KEY"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		io.WriteString(w, `{
			"code": "0",
			"msg": "success",
			"data": [
				{
					"symbol": "BTC",
					"stablecoin_margin_list": [
						{"exchange": "Binance", "funding_rate": 0.0001, "funding_rate_interval": 8, "next_funding_time": 1700000000000},
						{"exchange": "OKX", "funding_rate": -0.0002, "funding_rate_interval": 8},
						{"exchange": "Deribit", "funding_rate_interval": 8}
					]
				}
			]
		}`)
	}))
	defer srv.Close()

	records, err := newTestClient(t, srv.URL).FundingRates(context.Background())
	if err != nil {
		t.Fatalf("FundingRates: %v", err)
	}
	if len(records) != 1 || records[0].Symbol != "BTC" {
		t.Fatalf("unexpected records: %+v", records)
	}

	quotes := records[0].Quotes
	// The rateless Deribit entry must be dropped.
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Exchange != "Binance" || quotes[0].Rate != 0.0001 {
		t.Errorf("unexpected first quote: %+v", quotes[0])
	}
	if quotes[0].NextFundingAt == nil {
		t.Error("expected next funding time for Binance")
	}
	if quotes[1].NextFundingAt != nil {
		t.Error("expected nil next funding time when the provider omits it")
	}
}

func TestFundingRatesRejectsErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code": "40101", "msg": "apikey invalid"}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).FundingRates(context.Background()); err == nil {
		t.Fatal("expected an error for a non-zero envelope code")
	}
}

func TestOpenInterestSeparatesAggregateRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTC" {
			t.Errorf("unexpected symbol %q", got)
		}
		io.WriteString(w, `{
			"code": "0",
			"data": [
				{"exchange": "All", "open_interest_usd": 30000000000},
				{"exchange": "Binance", "open_interest_usd": 12000000000},
				{"exchange": "OKX", "open_interest_usd": 8000000000},
				{"exchange": "Deribit", "open_interest_usd": 2000000000}
			]
		}`)
	}))
	defer srv.Close()

	ds := newTestClient(t, srv.URL).OpenInterestByExchange(context.Background(), []string{"BTC"})
	rec, ok := ds.Lookup("btc")
	if !ok {
		t.Fatal("expected a BTC record")
	}
	if rec.OpenInterestUSD == nil || *rec.OpenInterestUSD != 30_000_000_000 {
		t.Errorf("expected the All row as aggregate, got %v", rec.OpenInterestUSD)
	}
	if rec.OpenInterestHigh == nil || *rec.OpenInterestHigh != 12_000_000_000 {
		t.Errorf("wrong high split: %v", rec.OpenInterestHigh)
	}
	if rec.OpenInterestLow == nil || *rec.OpenInterestLow != 2_000_000_000 {
		t.Errorf("wrong low split: %v", rec.OpenInterestLow)
	}
}

func TestOpenInterestSkipsFailingSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "BAD" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `{"code": "0", "data": [{"exchange": "All", "open_interest_usd": 100}]}`)
	}))
	defer srv.Close()

	ds := newTestClient(t, srv.URL).OpenInterestByExchange(context.Background(), []string{"BAD", "ETH"})
	if _, ok := ds.Lookup("BAD"); ok {
		t.Error("failed symbol must not appear in the dataset")
	}
	if _, ok := ds.Lookup("ETH"); !ok {
		t.Error("healthy symbol must survive a sibling failure")
	}
}

func TestHistoryKeepsLatestPointAndScales(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/futures/open-interest/history":
			io.WriteString(w, `{
				"code": "0",
				"data": {
					"btc": {
						"time_list": [1, 2, 3],
						"data_map": {"Binance": [10, 20, 30], "OKX": [5, 5, 15]}
					}
				}
			}`)
		case "/api/futures/volume/history":
			io.WriteString(w, `{
				"code": "0",
				"data": {
					"btc": {
						"time_list": [1, 2],
						"data_map": {"Binance": [100, 200]}
					}
				}
			}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := fetch.New(ProviderName, ratelimit.New(1000, 0), fetch.Config{MaxRetries: 1}, logger)
	c := New(Config{BaseURL: srv.URL, APIKey: "k", HistoryScale: 2.0}, fetcher, logger)

	ds := c.History(context.Background())
	rec, ok := ds.Lookup("BTC")
	if !ok {
		t.Fatal("expected a BTC record")
	}
	// Latest OI points 30 + 15 = 45, scaled by 2.
	if rec.OpenInterestUSD == nil || *rec.OpenInterestUSD != 90 {
		t.Errorf("expected scaled OI 90, got %v", rec.OpenInterestUSD)
	}
	if rec.Volume24h == nil || *rec.Volume24h != 400 {
		t.Errorf("expected scaled volume 400, got %v", rec.Volume24h)
	}
}

func TestHistoryDegradesToEmptyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if ds := newTestClient(t, srv.URL).History(context.Background()); len(ds) != 0 {
		t.Fatalf("expected an empty dataset, got %d records", len(ds))
	}
}
