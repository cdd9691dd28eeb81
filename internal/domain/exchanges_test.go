package domain

import "testing"

func TestSelectExchangesCanonicalizesCase(t *testing.T) {
	got := SelectExchanges([]string{"binance", " OKX ", "GATE.IO"})
	want := []string{"Binance", "OKX", "Gate.io"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSelectExchangesDropsUnknownNames(t *testing.T) {
	got := SelectExchanges([]string{"Binance", "MtGox"})
	if len(got) != 1 || got[0] != "Binance" {
		t.Errorf("expected only Binance, got %v", got)
	}
}

func TestSelectExchangesEmptyMeansAll(t *testing.T) {
	for _, requested := range [][]string{nil, {}, {" ", ""}, {"NotAVenue"}} {
		got := SelectExchanges(requested)
		if len(got) != len(KnownExchanges) {
			t.Errorf("request %v: expected all %d exchanges, got %v",
				requested, len(KnownExchanges), got)
		}
	}
}

func TestSourceDatasetLookupIsCaseInsensitive(t *testing.T) {
	v := 42.0
	ds := SourceDataset{"BTC": SideDataRecord{Volume24h: &v}}
	if _, ok := ds.Lookup("btc"); !ok {
		t.Error("expected a lowercase lookup to hit")
	}
	if _, ok := ds.Lookup("ETH"); ok {
		t.Error("expected a miss for an absent symbol")
	}
}
