package bags

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrDuplicate  = errors.New("coin already in portfolio")
	ErrNotFound   = errors.New("coin not in portfolio")
	ErrOutOfRange = errors.New("position out of range")
	ErrEmptyID    = errors.New("empty coin id")
)

// Portfolio is the ordered collection of holdings.
//
// Every successful mutation rewrites the full snapshot to the Storage before
// returning. The write is best-effort: a failure is logged and the in-memory
// state is kept.
//
// Portfolio is safe for concurrent use.
type Portfolio struct {
	mu       sync.Mutex
	holdings []Holding

	storage Storage
	key     string
	log     *logrus.Entry

	// detached is set when the snapshot exists but could not be read: writes
	// are refused so that it is never overwritten.
	detached bool
}

// NewPortfolio returns a portfolio persisted under key in storage.
// A nil storage disables persistence.
func NewPortfolio(storage Storage, key string, holdings ...Holding) *Portfolio {
	return &Portfolio{
		holdings: append([]Holding(nil), holdings...),
		storage:  storage,
		key:      key,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
}

// Load hydrates a portfolio from storage.
//
// A missing or corrupt snapshot is never an error: it yields an empty
// portfolio and a warning in the log. Any other read failure also yields an
// empty portfolio, but a detached one that never writes to storage.
func Load(ctx context.Context, storage Storage, key string, log *logrus.Entry) *Portfolio {
	p := NewPortfolio(storage, key)
	if log != nil {
		p.log = log
	}
	if storage == nil {
		return p
	}
	content, err := storage.Get(ctx, key)
	if errors.Is(err, fs.ErrNotExist) {
		// just a first run.
		p.log.WithField("key", key).Debug("no portfolio snapshot, starting empty")
		return p
	}
	if err != nil {
		p.detached = true
		p.log.WithError(err).WithField("key", key).Warn("cannot read portfolio snapshot, changes will not be saved")
		return p
	}
	holdings, err := DecodeHoldings(bytes.NewReader(content))
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("corrupt portfolio snapshot, starting empty")
		return p
	}
	p.holdings = holdings
	return p
}

// Detached reports whether the snapshot could not be read, in which case
// nothing is ever written back.
func (p *Portfolio) Detached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detached
}

// Holdings returns a copy of the ordered holdings.
func (p *Portfolio) Holdings() []Holding {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Holding(nil), p.holdings...)
}

// IDs returns the ordered coin ids.
func (p *Portfolio) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.holdings))
	for _, h := range p.holdings {
		ids = append(ids, h.ID)
	}
	return ids
}

// Len returns the number of holdings.
func (p *Portfolio) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.holdings)
}

// Has reports whether the coin id is held.
func (p *Portfolio) Has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index(id) >= 0
}

// Holding returns the holding for id.
func (p *Portfolio) Holding(id string) (Holding, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return Holding{}, false
	}
	return p.holdings[i], true
}

// index returns the position of id or -1. mu must be held.
func (p *Portfolio) index(id string) int {
	for i, h := range p.holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Add appends the coin with a quantity of 1 and an unknown price.
func (p *Portfolio) Add(coin Coin) error {
	if coin.ID == "" {
		return ErrEmptyID
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index(coin.ID) >= 0 {
		return fmt.Errorf("%q: %w", coin.ID, ErrDuplicate)
	}
	p.holdings = append(p.holdings, Holding{
		ID:       coin.ID,
		Name:     coin.Name,
		Symbol:   coin.Symbol,
		Quantity: Q(1),
	})
	p.persist()
	return nil
}

// Remove deletes the holding of id.
func (p *Portfolio) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	p.holdings = append(p.holdings[:i], p.holdings[i+1:]...)
	p.persist()
	return nil
}

// SetQuantity replaces the quantity of id.
func (p *Portfolio) SetQuantity(id string, q Quantity) error {
	if q.IsNegative() {
		return fmt.Errorf("%v: %w", q, ErrInvalidQuantity)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	p.holdings[i].Quantity = q
	p.persist()
	return nil
}

// Reorder moves the holding at from to position to, shifting the holdings in
// between by one.
func (p *Portfolio) Reorder(from, to int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.holdings)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d to %d in %d holdings: %w", from, to, n, ErrOutOfRange)
	}
	if from == to {
		return nil
	}
	h := p.holdings[from]
	if from < to {
		copy(p.holdings[from:to], p.holdings[from+1:to+1])
	} else {
		copy(p.holdings[to+1:from+1], p.holdings[to:from])
	}
	p.holdings[to] = h
	p.persist()
	return nil
}

// SetPrices updates the price of every holding present in quotes. Holdings
// absent from quotes keep their previous price. It returns the number of
// holdings updated.
func (p *Portfolio) SetPrices(quotes map[string]Quote) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for i := range p.holdings {
		q, ok := quotes[p.holdings[i].ID]
		if !ok {
			continue
		}
		p.holdings[i].Price = USD(q.USD)
		p.holdings[i].Priced = true
		p.holdings[i].Change24h = q.Change24h
		n++
	}
	if n > 0 {
		p.persist()
	}
	return n
}

// Flush writes the snapshot whether or not it changed.
func (p *Portfolio) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.persist()
}

// persist overwrites the durable snapshot. mu must be held.
func (p *Portfolio) persist() {
	if p.storage == nil {
		return
	}
	if p.detached {
		p.log.WithField("key", p.key).Warn("portfolio snapshot was not read, not overwriting it")
		return
	}
	content, err := snapshot(p.holdings)
	if err != nil {
		p.log.WithError(err).Error("cannot encode portfolio snapshot")
		return
	}
	// The write outlives any caller context.
	if err := p.storage.Put(context.Background(), p.key, content); err != nil {
		p.log.WithError(err).WithField("key", p.key).Warn("cannot persist portfolio snapshot (ignored)")
	}
}
