package bags

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	BTC  = Coin{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc"}
	ETH  = Coin{ID: "ethereum", Name: "Ethereum", Symbol: "eth"}
	DOGE = Coin{ID: "dogecoin", Name: "Dogecoin", Symbol: "doge"}
)

// quote is a helper for test to create a quote from a const.
func quote(v float64) Quote { return Quote{USD: decimal.NewFromFloat(v)} }

var errOffline = errors.New("offline")

// fakeMarket is a PriceFetcher and a Catalog that records its calls.
type fakeMarket struct {
	mu      sync.Mutex
	prices  map[string]Quote
	coins   []Coin
	details map[string]CoinDetail
	err     error

	priceCalls  [][]string
	searchCalls []string
	coinCalls   []string
}

func (m *fakeMarket) FetchPrices(_ context.Context, ids []string) (map[string]Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceCalls = append(m.priceCalls, ids)
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[string]Quote)
	for _, id := range ids {
		if q, ok := m.prices[id]; ok {
			result[id] = q
		}
	}
	return result, nil
}

func (m *fakeMarket) Search(_ context.Context, query string) ([]Coin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = append(m.searchCalls, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.coins, nil
}

func (m *fakeMarket) List(_ context.Context) ([]Coin, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.coins, nil
}

func (m *fakeMarket) Coin(_ context.Context, id string) (CoinDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coinCalls = append(m.coinCalls, id)
	if m.err != nil {
		return CoinDetail{}, m.err
	}
	d, ok := m.details[id]
	if !ok {
		return CoinDetail{}, errors.New("404 Not Found")
	}
	return d, nil
}

func (m *fakeMarket) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.priceCalls) + len(m.searchCalls) + len(m.coinCalls)
}

// failingStorage rejects every write.
type failingStorage struct{}

func (failingStorage) Get(context.Context, string) ([]byte, error) { return nil, errOffline }
func (failingStorage) Put(context.Context, string, []byte) error   { return errOffline }

// ids returns the ordered ids of holdings.
func ids(holdings []Holding) []string {
	result := make([]string, 0, len(holdings))
	for _, h := range holdings {
		result = append(result, h.ID)
	}
	return result
}

// unreadableStorage fails every read with a transient error, writes go to
// the underlying storage.
type unreadableStorage struct {
	Storage
}

func (unreadableStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}
