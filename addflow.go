package bags

import (
	"context"
	"errors"
	"fmt"
)

// AddState is a step of the add flow.
type AddState int

const (
	Idle AddState = iota
	Searching
	Suggesting
	Resolving
	Added
)

func (s AddState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Suggesting:
		return "suggesting"
	case Resolving:
		return "resolving"
	case Added:
		return "added"
	default:
		return fmt.Sprintf("AddState(%d)", int(s))
	}
}

// AddFlow drives the search-as-you-type add of a coin:
//
//	Idle → Searching → Suggesting → Resolving → Added
//
// Any failure goes back to Idle with the error kept in Err. Selecting a coin
// already held goes straight back to Idle without a network call.
//
// AddFlow is a Display Layer helper, it is not safe for concurrent use.
type AddFlow struct {
	engine      *Engine
	state       AddState
	query       string
	suggestions []Coin
	added       Holding
	err         error
}

// NewAddFlow returns an idle flow on e.
func NewAddFlow(e *Engine) *AddFlow { return &AddFlow{engine: e} }

func (f *AddFlow) State() AddState        { return f.state }
func (f *AddFlow) Query() string          { return f.query }
func (f *AddFlow) Suggestions() []Coin    { return f.suggestions }
func (f *AddFlow) Err() error             { return f.err }
func (f *AddFlow) Added() (Holding, bool) { return f.added, f.state == Added }

// Type records the query text and searches the catalog. Queries shorter than
// MinQueryLength clear the suggestions and stay Idle.
func (f *AddFlow) Type(ctx context.Context, query string) error {
	f.query = query
	f.suggestions = nil
	f.err = nil
	f.state = Searching
	coins, err := f.engine.Search(ctx, query)
	if err != nil {
		return f.fail(err)
	}
	if len(coins) == 0 {
		f.state = Idle
		return nil
	}
	f.suggestions = coins
	f.state = Suggesting
	return nil
}

// Pick selects the i-th suggestion (0-based).
func (f *AddFlow) Pick(ctx context.Context, i int) error {
	if f.state != Suggesting {
		return fmt.Errorf("pick in state %v: no suggestions", f.state)
	}
	if i < 0 || i >= len(f.suggestions) {
		return fmt.Errorf("pick #%d of %d suggestions: %w", i, len(f.suggestions), ErrOutOfRange)
	}
	return f.Select(ctx, f.suggestions[i])
}

// Select adds coin to the portfolio.
func (f *AddFlow) Select(ctx context.Context, coin Coin) error {
	f.err = nil
	if f.engine.Portfolio().Has(coin.ID) {
		f.reset()
		f.err = fmt.Errorf("%q: %w", coin.ID, ErrDuplicate)
		return f.err
	}
	f.state = Resolving
	h, err := f.engine.Add(ctx, coin)
	if err != nil {
		return f.fail(err)
	}
	f.query = ""
	f.suggestions = nil
	f.added = h
	f.state = Added
	return nil
}

// Reset goes back to Idle, forgetting the query.
func (f *AddFlow) Reset() {
	f.reset()
	f.err = nil
}

func (f *AddFlow) reset() {
	f.state = Idle
	f.query = ""
	f.suggestions = nil
	f.added = Holding{}
}

func (f *AddFlow) fail(err error) error {
	f.reset()
	f.err = err
	return err
}

// IsDuplicate reports whether err is a duplicate add notice rather than a
// failure.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }
