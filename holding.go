package bags

import "github.com/shopspring/decimal"

// Coin is a catalog entry: the canonical id assigned by the catalog, its
// display name and ticker symbol.
type Coin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// CoinRef is what a user selects to add a coin. Only ID is mandatory, a ref
// with no Name is resolved against the catalog.
type CoinRef = Coin

// CoinDetail is the catalog detail for a single coin.
type CoinDetail struct {
	Coin
	Image           string
	CurrentPriceUSD decimal.Decimal
	Priced          bool // false when the catalog has no current price
}

// Quote is the latest USD price of a coin, with its 24h change in percent
// when the price service provides it.
type Quote struct {
	USD       decimal.Decimal
	Change24h *decimal.Decimal
}

// Holding is a single owned coin in a portfolio.
type Holding struct {
	ID       string
	Name     string
	Symbol   string
	Quantity Quantity

	// Price is transient, it is never persisted. Priced is false until a
	// price was fetched, which values the holding at 0.
	Price     Money
	Priced    bool
	Change24h *decimal.Decimal
}

// Coin returns the catalog part of the holding.
func (h Holding) Coin() Coin { return Coin{ID: h.ID, Name: h.Name, Symbol: h.Symbol} }

// Value returns quantity × price, 0 when the price is unknown.
func (h Holding) Value() Money {
	if !h.Priced {
		return Money{}
	}
	return h.Price.Mul(h.Quantity)
}
