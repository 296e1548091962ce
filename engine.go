package bags

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Engine is the portfolio valuation and sync engine. It owns the Portfolio and
// implements the user intents on top of the price service and the catalog.
//
// Engine does not serialize concurrent refreshes: the last price response to
// complete wins.
type Engine struct {
	portfolio *Portfolio
	prices    PriceFetcher
	catalog   Catalog
	log       *logrus.Entry
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	key string
	log *logrus.Entry
}

// WithKey sets the storage key of the portfolio snapshot, DefaultKey otherwise.
func WithKey(key string) Option { return func(o *options) { o.key = key } }

// WithLogger sets the logger of the engine, the logrus standard logger otherwise.
func WithLogger(log *logrus.Entry) Option { return func(o *options) { o.log = log } }

// Open hydrates the portfolio from storage and returns an Engine on it.
// It never fails: a missing or corrupt snapshot starts an empty portfolio.
func Open(ctx context.Context, storage Storage, prices PriceFetcher, catalog Catalog, opts ...Option) *Engine {
	o := options{key: DefaultKey, log: logrus.NewEntry(logrus.StandardLogger())}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		portfolio: Load(ctx, storage, o.key, o.log),
		prices:    prices,
		catalog:   catalog,
		log:       o.log,
	}
}

// Portfolio returns the underlying store.
func (e *Engine) Portfolio() *Portfolio { return e.portfolio }

// Holdings returns the ordered holdings.
func (e *Engine) Holdings() []Holding { return e.portfolio.Holdings() }

// Valuation values the current holdings.
func (e *Engine) Valuation() Valuation { return Valuate(e.portfolio.Holdings()) }

// Add resolves ref and appends it to the portfolio with its current price.
//
// An already held coin returns ErrDuplicate without any network call. A ref
// with no name is resolved with the catalog coin detail, otherwise only its
// price is fetched. On failure nothing is added.
func (e *Engine) Add(ctx context.Context, ref CoinRef) (Holding, error) {
	ref.ID = strings.TrimSpace(ref.ID)
	if ref.ID == "" {
		return Holding{}, ErrEmptyID
	}
	if e.portfolio.Has(ref.ID) {
		return Holding{}, fmt.Errorf("%q: %w", ref.ID, ErrDuplicate)
	}

	var quotes map[string]Quote
	if ref.Name == "" {
		detail, err := e.catalog.Coin(ctx, ref.ID)
		if err != nil {
			return Holding{}, fmt.Errorf("cannot resolve coin %q: %w", ref.ID, err)
		}
		if detail.ID == "" {
			detail.ID = ref.ID
		}
		ref = detail.Coin
		if detail.Priced {
			quotes = map[string]Quote{ref.ID: {USD: detail.CurrentPriceUSD}}
		}
	} else {
		var err error
		quotes, err = e.prices.FetchPrices(ctx, []string{ref.ID})
		if err != nil {
			return Holding{}, fmt.Errorf("cannot fetch price of %q: %w", ref.ID, err)
		}
	}

	if err := e.portfolio.Add(ref); err != nil {
		// a concurrent add won the race.
		return Holding{}, err
	}
	e.portfolio.SetPrices(quotes)
	h, _ := e.portfolio.Holding(ref.ID)
	e.log.WithField("id", ref.ID).Info("coin added")
	return h, nil
}

// Remove removes the coin id.
func (e *Engine) Remove(id string) error { return e.portfolio.Remove(id) }

// SetQuantity parses value at the edge and replaces the quantity of id.
// Invalid input leaves the portfolio untouched.
func (e *Engine) SetQuantity(id, value string) error {
	q, err := ParseQuantity(value)
	if err != nil {
		return err
	}
	return e.portfolio.SetQuantity(id, q)
}

// Reorder moves the holding at from to position to (0-based).
func (e *Engine) Reorder(from, to int) error { return e.portfolio.Reorder(from, to) }

// RefreshPrices fetches the price of every holding.
//
// An empty portfolio performs no network call. On failure the existing prices
// are kept and the error is returned, there is no retry.
func (e *Engine) RefreshPrices(ctx context.Context) error {
	ids := e.portfolio.IDs()
	if len(ids) == 0 {
		return nil
	}
	quotes, err := e.prices.FetchPrices(ctx, ids)
	if err != nil {
		return fmt.Errorf("cannot refresh prices: %w", err)
	}
	n := e.portfolio.SetPrices(quotes)
	if n < len(ids) {
		e.log.WithFields(logrus.Fields{"requested": len(ids), "priced": n}).Warn("partial price refresh")
	}
	return nil
}

// Search returns the catalog suggestions for query. Queries shorter than
// MinQueryLength return nothing without a network call.
func (e *Engine) Search(ctx context.Context, query string) ([]Coin, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return nil, nil
	}
	coins, err := e.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cannot search %q: %w", query, err)
	}
	return DedupeCoins(coins), nil
}

// Close performs a final best-effort persist.
func (e *Engine) Close() { e.portfolio.Flush() }
