package bags

import "context"

// PriceFetcher retrieves the current USD quotes of a set of coins.
//
// The returned map may omit ids the price service does not know, this is a
// partial result and not an error.
type PriceFetcher interface {
	FetchPrices(ctx context.Context, ids []string) (map[string]Quote, error)
}

// Catalog resolves coins from the external directory of known coins.
type Catalog interface {
	// Search returns the coins matching a free text, deduplicated by id.
	Search(ctx context.Context, query string) ([]Coin, error)
	// List returns all known coins, deduplicated by id.
	List(ctx context.Context) ([]Coin, error)
	// Coin returns the detail of a single coin.
	Coin(ctx context.Context, id string) (CoinDetail, error)
}

// Storage is a durable key-value store. Get must return an error wrapping
// fs.ErrNotExist when the key has never been written.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// MinQueryLength is the shortest query sent to the catalog.
const MinQueryLength = 2

// DedupeCoins keeps the first occurrence of each id, preserving order.
func DedupeCoins(coins []Coin) []Coin {
	seen := make(map[string]bool, len(coins))
	result := make([]Coin, 0, len(coins))
	for _, c := range coins {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		result = append(result, c)
	}
	return result
}
