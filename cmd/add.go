package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/bags"
	"github.com/etnz/bags/renderer"
	"github.com/google/subcommands"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	query string
	pick  int
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a coin to your bags" }
func (*addCmd) Usage() string {
	return `yb add <coin id>
yb add -q <query> [-n <#>]

  Adds a coin with a quantity of 1 at the end of your bags.

  With a coin id (as listed by 'yb search'), the coin is resolved in the
  catalog. With -q, the catalog is searched and the suggestions are listed,
  -n picks the #th suggestion directly.

Usage Examples:
$ yb add bitcoin
$ yb add -q ether -n 1
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "search the catalog for `query`")
	f.IntVar(&c.pick, "n", 0, "add the #th suggestion of the search (1-based)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.query == "") == (f.NArg() == 0) {
		fmt.Fprintln(os.Stderr, "Error: either a coin id or -q <query> is required")
		return subcommands.ExitUsageError
	}
	if c.query == "" && f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: add takes a single coin id")
		return subcommands.ExitUsageError
	}

	return withSession(ctx, func(s *session) error {
		flow := bags.NewAddFlow(s.engine)
		var err error
		if c.query == "" {
			err = flow.Select(ctx, bags.CoinRef{ID: strings.TrimSpace(f.Arg(0))})
		} else {
			err = c.search(ctx, s, flow)
		}
		if bags.IsDuplicate(err) {
			fmt.Fprintf(stdout, "%v, nothing to do.\n", err)
			return nil
		}
		if err != nil {
			return err
		}
		if h, ok := flow.Added(); ok {
			price := "unknown price"
			if h.Priced {
				price = h.Price.String()
			}
			fmt.Fprintf(stdout, "Added %s (%s) at %s.\n", h.Name, strings.ToUpper(h.Symbol), price)
		}
		return nil
	})
}

func (c *addCmd) search(ctx context.Context, s *session, flow *bags.AddFlow) error {
	if err := flow.Type(ctx, c.query); err != nil {
		return err
	}
	if flow.State() != bags.Suggesting {
		if len([]rune(strings.TrimSpace(c.query))) < bags.MinQueryLength {
			return fmt.Errorf("query %q is too short, type at least %d characters", c.query, bags.MinQueryLength)
		}
		return fmt.Errorf("no coin matches %q", c.query)
	}
	if c.pick == 0 {
		printMarkdown(renderer.RenderSuggestions(renderer.NewSuggestions(c.query, flow.Suggestions(), s.engine.Portfolio().Has)))
		return nil
	}
	return flow.Pick(ctx, c.pick-1)
}
