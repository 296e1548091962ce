package bags

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/etnz/bags/storage"
	"github.com/google/go-cmp/cmp"
)

// newTestPortfolio returns a portfolio holding coins, persisted in memory.
func newTestPortfolio(t *testing.T, coins ...Coin) (*Portfolio, *storage.Memory) {
	t.Helper()
	mem := new(storage.Memory)
	p := NewPortfolio(mem, DefaultKey)
	for _, c := range coins {
		if err := p.Add(c); err != nil {
			t.Fatalf("Add(%v) unexpected error = %v", c.ID, err)
		}
	}
	return p, mem
}

func TestPortfolio_Add(t *testing.T) {
	p, mem := newTestPortfolio(t, BTC)

	// Adding the same id twice yields a single holding.
	if err := p.Add(BTC); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Add(duplicate) error = %v; want ErrDuplicate", err)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d; want 1", p.Len())
	}
	if mem.Puts() != 1 {
		t.Errorf("duplicate add wrote the snapshot: %d writes; want 1", mem.Puts())
	}

	if err := p.Add(Coin{Name: "no id"}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("Add(no id) error = %v; want ErrEmptyID", err)
	}

	h, ok := p.Holding("bitcoin")
	if !ok {
		t.Fatal("Holding(bitcoin) not found")
	}
	if !h.Quantity.Equal(Q(1)) || h.Priced {
		t.Errorf("new holding = quantity %v priced %v; want 1 and unknown price", h.Quantity, h.Priced)
	}
}

func TestPortfolio_Remove(t *testing.T) {
	p, mem := newTestPortfolio(t, BTC, ETH)
	if err := p.Remove("bitcoin"); err != nil {
		t.Fatalf("Remove() unexpected error = %v", err)
	}
	if err := p.Remove("bitcoin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(absent) error = %v; want ErrNotFound", err)
	}
	if diff := cmp.Diff([]string{"ethereum"}, p.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
	if mem.Puts() != 3 {
		t.Errorf("got %d writes; want 3 (two adds, one remove)", mem.Puts())
	}
}

func TestPortfolio_SetQuantity(t *testing.T) {
	p, mem := newTestPortfolio(t, BTC)
	writes := mem.Puts()

	if err := p.SetQuantity("bitcoin", Q(-1)); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("SetQuantity(-1) error = %v; want ErrInvalidQuantity", err)
	}
	if _, err := ParseQuantity("abc"); err == nil {
		t.Error(`ParseQuantity("abc") expected an error`)
	}
	if err := p.SetQuantity("ethereum", Q(3)); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetQuantity(absent) error = %v; want ErrNotFound", err)
	}
	if h, _ := p.Holding("bitcoin"); !h.Quantity.Equal(Q(1)) {
		t.Errorf("rejected SetQuantity changed the quantity to %v", h.Quantity)
	}
	if mem.Puts() != writes {
		t.Errorf("rejected SetQuantity wrote the snapshot")
	}

	if err := p.SetQuantity("bitcoin", Q(0)); err != nil {
		t.Fatalf("SetQuantity(0) unexpected error = %v", err)
	}
	if h, _ := p.Holding("bitcoin"); !h.Quantity.IsZero() {
		t.Errorf("SetQuantity(0) quantity = %v; want 0", h.Quantity)
	}
	if p.Len() != 1 {
		t.Error("a zero quantity must not remove the holding")
	}
}

func TestPortfolio_Reorder(t *testing.T) {
	testCases := []struct {
		name      string
		from, to  int
		want      []string
		expectErr bool
	}{
		{"first to last", 0, 2, []string{"ethereum", "dogecoin", "bitcoin"}, false},
		{"last to first", 2, 0, []string{"dogecoin", "bitcoin", "ethereum"}, false},
		{"swap middle", 1, 2, []string{"bitcoin", "dogecoin", "ethereum"}, false},
		{"same position", 1, 1, []string{"bitcoin", "ethereum", "dogecoin"}, false},
		{"out of range", 0, 99, []string{"bitcoin", "ethereum", "dogecoin"}, true},
		{"negative", -1, 0, []string{"bitcoin", "ethereum", "dogecoin"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestPortfolio(t, BTC, ETH, DOGE)
			err := p.Reorder(tc.from, tc.to)
			if tc.expectErr != errors.Is(err, ErrOutOfRange) {
				t.Errorf("Reorder(%d, %d) error = %v; want error %v", tc.from, tc.to, err, tc.expectErr)
			}
			if diff := cmp.Diff(tc.want, p.IDs()); diff != "" {
				t.Errorf("Reorder(%d, %d) mismatch (-want +got):\n%s", tc.from, tc.to, diff)
			}
		})
	}
}

func TestPortfolio_SetPrices(t *testing.T) {
	p, _ := newTestPortfolio(t, BTC, ETH)
	p.SetPrices(map[string]Quote{"bitcoin": quote(5), "ethereum": quote(7)})

	// a partial update leaves the other prices untouched.
	if n := p.SetPrices(map[string]Quote{"bitcoin": quote(10), "unknown": quote(1)}); n != 1 {
		t.Errorf("SetPrices() updated %d holdings; want 1", n)
	}
	btc, _ := p.Holding("bitcoin")
	eth, _ := p.Holding("ethereum")
	if !btc.Price.Equal(USD(10)) {
		t.Errorf("bitcoin price = %v; want 10", btc.Price)
	}
	if !eth.Priced || !eth.Price.Equal(USD(7)) {
		t.Errorf("ethereum price = %v (priced %v); want 7", eth.Price, eth.Priced)
	}
}

func TestPortfolio_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p, mem := newTestPortfolio(t, BTC, ETH, Coin{ID: "nosymbol", Name: "No Symbol"})
	if err := p.SetQuantity("ethereum", Q(0.5)); err != nil {
		t.Fatal(err)
	}
	if err := p.Reorder(2, 0); err != nil {
		t.Fatal(err)
	}
	p.SetPrices(map[string]Quote{"bitcoin": quote(50000)})

	got := Load(ctx, mem, DefaultKey, nil).Holdings()
	want := []Holding{
		{ID: "nosymbol", Name: "No Symbol", Quantity: Q(1)},
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", Quantity: Q(1)},
		{ID: "ethereum", Name: "Ethereum", Symbol: "eth", Quantity: Q(0.5)},
	}
	if diff := cmp.Diff(ids(want), ids(got)); diff != "" {
		t.Fatalf("Load() order mismatch (-want +got):\n%s", diff)
	}
	for i := range want {
		if got[i].Coin() != want[i].Coin() || !got[i].Quantity.Equal(want[i].Quantity) {
			t.Errorf("Load()[%d] = %+v; want %+v", i, got[i], want[i])
		}
		if got[i].Priced {
			t.Errorf("Load()[%d] has a persisted price", i)
		}
	}
}

func TestLoad_Degrades(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name    string
		content string
	}{
		{"not json", `{{{`},
		{"wrong type", `{"id":"bitcoin"}`},
		{"no id", `[{"name":"Bitcoin","quantity":1}]`},
		{"negative quantity", `[{"id":"bitcoin","name":"Bitcoin","quantity":-1}]`},
		{"invalid quantity", `[{"id":"bitcoin","name":"Bitcoin","quantity":"abc"}]`},
		{"quantity out of range", `[{"id":"bitcoin","name":"Bitcoin","quantity":1e400}]`},
		{"huge exponent", `[{"id":"bitcoin","name":"Bitcoin","quantity":1e100000000}]`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mem := new(storage.Memory)
			mem.Put(ctx, DefaultKey, []byte(tc.content))
			if p := Load(ctx, mem, DefaultKey, nil); p.Len() != 0 {
				t.Errorf("Load(%s) = %v; want an empty portfolio", tc.content, p.IDs())
			}
		})
	}

	t.Run("missing key", func(t *testing.T) {
		if p := Load(ctx, new(storage.Memory), DefaultKey, nil); p.Len() != 0 {
			t.Errorf("Load() = %v; want an empty portfolio", p.IDs())
		}
	})
	t.Run("failing storage", func(t *testing.T) {
		if p := Load(ctx, failingStorage{}, DefaultKey, nil); p.Len() != 0 {
			t.Errorf("Load() = %v; want an empty portfolio", p.IDs())
		}
	})
}

func TestLoad_ReadErrorKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	content := `[{"id":"bitcoin","name":"Bitcoin","quantity":2}]`
	mem := new(storage.Memory)
	mem.Put(ctx, DefaultKey, []byte(content))

	e := Open(ctx, unreadableStorage{mem}, &fakeMarket{}, &fakeMarket{})
	if !e.Portfolio().Detached() {
		t.Error("Open() on an unreadable storage is not detached")
	}
	if _, err := e.Add(ctx, BTC); err != nil {
		t.Fatal(err)
	}
	e.Close()

	got, err := mem.Get(ctx, DefaultKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("snapshot after a read error = %s; want %s untouched", got, content)
	}

	// a missing snapshot is a first run, it is saved.
	fresh := new(storage.Memory)
	p := Load(ctx, fresh, DefaultKey, nil)
	if p.Detached() {
		t.Error("Load() on a missing key is detached")
	}
	p.Flush()
	if fresh.Puts() != 1 {
		t.Errorf("Flush() after a first run made %d writes; want 1", fresh.Puts())
	}
}

func TestPortfolio_PersistFailureKeepsState(t *testing.T) {
	p := NewPortfolio(failingStorage{}, DefaultKey)
	if err := p.Add(BTC); err != nil {
		t.Fatalf("Add() with a failing storage error = %v; want nil", err)
	}
	if !p.Has("bitcoin") {
		t.Error("Add() with a failing storage lost the holding")
	}
}

func TestEncodeHoldings(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeHoldings(&buf, []Holding{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", Quantity: Q(2), Price: USD(50000), Priced: true},
		{ID: "nosymbol", Name: "No Symbol", Quantity: Q(0.5)},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":"bitcoin","name":"Bitcoin","symbol":"btc","quantity":2},{"id":"nosymbol","name":"No Symbol","quantity":0.5}]`
	if buf.String() != want {
		t.Errorf("EncodeHoldings() = %s; want %s", buf.String(), want)
	}
}

func TestDecodeHoldings_Duplicates(t *testing.T) {
	got, err := DecodeHoldings(bytes.NewBufferString(`[{"id":"bitcoin","name":"first","quantity":1},{"id":"bitcoin","name":"second","quantity":2}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "first" {
		t.Errorf("DecodeHoldings() = %+v; want the first bitcoin only", got)
	}
}
