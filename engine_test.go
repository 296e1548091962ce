package bags

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/bags/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func newTestEngine(t *testing.T, market *fakeMarket, coins ...Coin) (*Engine, *storage.Memory) {
	t.Helper()
	mem := new(storage.Memory)
	e := Open(context.Background(), mem, market, market)
	for _, c := range coins {
		if err := e.Portfolio().Add(c); err != nil {
			t.Fatal(err)
		}
	}
	return e, mem
}

func TestEngine_RefreshEmpty(t *testing.T) {
	market := &fakeMarket{}
	e, _ := newTestEngine(t, market)
	if err := e.RefreshPrices(context.Background()); err != nil {
		t.Errorf("RefreshPrices() unexpected error = %v", err)
	}
	if market.calls() != 0 {
		t.Errorf("RefreshPrices() on an empty portfolio made %d calls; want 0", market.calls())
	}
}

func TestEngine_Refresh(t *testing.T) {
	change := decimal.NewFromFloat(-1.5)
	market := &fakeMarket{prices: map[string]Quote{
		"bitcoin":  {USD: decimal.NewFromInt(50000), Change24h: &change},
		"ethereum": quote(3000),
	}}
	e, _ := newTestEngine(t, market, BTC, ETH, DOGE)

	if err := e.RefreshPrices(context.Background()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"bitcoin", "ethereum", "dogecoin"}}, market.priceCalls); diff != "" {
		t.Errorf("FetchPrices() calls mismatch (-want +got):\n%s", diff)
	}
	v := e.Valuation()
	if !v.Total.Equal(USD(53000)) {
		t.Errorf("Total = %v; want 53000", v.Total.Decimal())
	}
	if v.Unpriced != 1 {
		t.Errorf("Unpriced = %d; want 1 (dogecoin)", v.Unpriced)
	}
	if btc, _ := e.Portfolio().Holding("bitcoin"); btc.Change24h == nil || !btc.Change24h.Equal(change) {
		t.Errorf("bitcoin 24h change = %v; want -1.5", btc.Change24h)
	}
}

func TestEngine_RefreshFailureKeepsPrices(t *testing.T) {
	market := &fakeMarket{prices: map[string]Quote{"bitcoin": quote(50000)}}
	e, _ := newTestEngine(t, market, BTC)
	ctx := context.Background()
	if err := e.RefreshPrices(ctx); err != nil {
		t.Fatal(err)
	}

	market.err = errOffline
	if err := e.RefreshPrices(ctx); !errors.Is(err, errOffline) {
		t.Errorf("RefreshPrices() error = %v; want %v", err, errOffline)
	}
	btc, _ := e.Portfolio().Holding("bitcoin")
	if !btc.Priced || !btc.Price.Equal(USD(50000)) {
		t.Errorf("failed refresh changed the price to %v (priced %v)", btc.Price, btc.Priced)
	}
}

func TestEngine_AddDuplicate(t *testing.T) {
	market := &fakeMarket{}
	e, mem := newTestEngine(t, market, BTC)
	writes := mem.Puts()

	_, err := e.Add(context.Background(), BTC)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Add(duplicate) error = %v; want ErrDuplicate", err)
	}
	if market.calls() != 0 {
		t.Errorf("Add(duplicate) made %d network calls; want 0", market.calls())
	}
	if mem.Puts() != writes {
		t.Error("Add(duplicate) wrote the snapshot")
	}
}

func TestEngine_Add(t *testing.T) {
	testCases := []struct {
		name       string
		ref        CoinRef
		market     *fakeMarket
		want       Holding
		priceCalls int
		coinCalls  int
		expectErr  bool
	}{
		{
			name:       "selected suggestion",
			ref:        BTC,
			market:     &fakeMarket{prices: map[string]Quote{"bitcoin": quote(50000)}},
			want:       Holding{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", Quantity: Q(1), Price: USD(50000), Priced: true},
			priceCalls: 1,
		},
		{
			name:       "selected suggestion without price",
			ref:        BTC,
			market:     &fakeMarket{},
			want:       Holding{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", Quantity: Q(1)},
			priceCalls: 1,
		},
		{
			name: "bare id",
			ref:  CoinRef{ID: " ethereum "},
			market: &fakeMarket{details: map[string]CoinDetail{
				"ethereum": {Coin: ETH, CurrentPriceUSD: decimal.NewFromInt(3000), Priced: true},
			}},
			want:      Holding{ID: "ethereum", Name: "Ethereum", Symbol: "eth", Quantity: Q(1), Price: USD(3000), Priced: true},
			coinCalls: 1,
		},
		{
			name:      "unknown id",
			ref:       CoinRef{ID: "nope"},
			market:    &fakeMarket{},
			coinCalls: 1,
			expectErr: true,
		},
		{
			name:       "offline",
			ref:        BTC,
			market:     &fakeMarket{err: errOffline},
			priceCalls: 1,
			expectErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, tc.market)
			got, err := e.Add(context.Background(), tc.ref)
			if (err != nil) != tc.expectErr {
				t.Fatalf("Add() error = %v, expectErr %v", err, tc.expectErr)
			}
			if len(tc.market.priceCalls) != tc.priceCalls || len(tc.market.coinCalls) != tc.coinCalls {
				t.Errorf("Add() made %d price and %d coin calls; want %d and %d",
					len(tc.market.priceCalls), len(tc.market.coinCalls), tc.priceCalls, tc.coinCalls)
			}
			if tc.expectErr {
				if e.Portfolio().Len() != 0 {
					t.Errorf("failed Add() changed the portfolio: %v", e.Portfolio().IDs())
				}
				return
			}
			if got.Coin() != tc.want.Coin() || !got.Quantity.Equal(tc.want.Quantity) ||
				got.Priced != tc.want.Priced || !got.Price.Equal(tc.want.Price) {
				t.Errorf("Add() = %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestEngine_AddEmptyID(t *testing.T) {
	market := &fakeMarket{}
	e, _ := newTestEngine(t, market)
	if _, err := e.Add(context.Background(), CoinRef{ID: "  "}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("Add(blank) error = %v; want ErrEmptyID", err)
	}
	if market.calls() != 0 {
		t.Errorf("Add(blank) made %d network calls; want 0", market.calls())
	}
}

func TestEngine_SetQuantity(t *testing.T) {
	e, _ := newTestEngine(t, &fakeMarket{}, BTC)
	for _, input := range []string{"-1", "abc", "", "1e400", "1e100000000"} {
		if err := e.SetQuantity("bitcoin", input); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("SetQuantity(%q) error = %v; want ErrInvalidQuantity", input, err)
		}
	}
	if err := e.SetQuantity("bitcoin", "0.25"); err != nil {
		t.Fatal(err)
	}
	if h, _ := e.Portfolio().Holding("bitcoin"); !h.Quantity.Equal(Q(0.25)) {
		t.Errorf("quantity = %v; want 0.25", h.Quantity)
	}
}

func TestEngine_Search(t *testing.T) {
	market := &fakeMarket{coins: []Coin{BTC, ETH, BTC, {Name: "no id"}}}
	e, _ := newTestEngine(t, market)
	ctx := context.Background()

	for _, q := range []string{"", "b", " b ", "é"} {
		got, err := e.Search(ctx, q)
		if err != nil || len(got) != 0 {
			t.Errorf("Search(%q) = %v, %v; want nothing", q, got, err)
		}
	}
	if market.calls() != 0 {
		t.Errorf("short queries made %d network calls; want 0", market.calls())
	}

	got, err := e.Search(ctx, "bi")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Coin{BTC, ETH}, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}

	market.err = errOffline
	if _, err := e.Search(ctx, "bi"); !errors.Is(err, errOffline) {
		t.Errorf("Search() error = %v; want %v", err, errOffline)
	}
}

func TestEngine_ReopenKeepsHoldings(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{prices: map[string]Quote{"bitcoin": quote(1)}}
	e, mem := newTestEngine(t, market, BTC, ETH)
	if err := e.Reorder(1, 0); err != nil {
		t.Fatal(err)
	}
	e.Close()

	reopened := Open(ctx, mem, market, market)
	if diff := cmp.Diff([]string{"ethereum", "bitcoin"}, ids(reopened.Holdings())); diff != "" {
		t.Errorf("Open() mismatch (-want +got):\n%s", diff)
	}
	if reopened.Valuation().Unpriced != 2 {
		t.Error("prices must not survive a reopen")
	}
}
