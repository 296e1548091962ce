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

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search the coin catalog" }
func (*searchCmd) Usage() string {
	return `yb search <query>

  Searches coins by name or symbol and prints the command to add each one.
  The query needs at least 2 characters.
`
}

func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if len([]rune(strings.TrimSpace(query))) < bags.MinQueryLength {
		fmt.Fprintf(os.Stderr, "Error: type at least %d characters\n", bags.MinQueryLength)
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *session) error {
		coins, err := s.engine.Search(ctx, query)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderSuggestions(renderer.NewSuggestions(query, coins, s.engine.Portfolio().Has)))
		return nil
	})
}

// coinsCmd holds the flags for the 'coins' subcommand.
type coinsCmd struct {
	filter string
	limit  int
}

func (*coinsCmd) Name() string     { return "coins" }
func (*coinsCmd) Synopsis() string { return "list the coin catalog" }
func (*coinsCmd) Usage() string {
	return `yb coins [-filter <text>] [-n <max>]

  Lists the known coins. The catalog is downloaded once a day.
`
}

func (c *coinsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "filter", "", "only list coins whose id, name or symbol contains `text`")
	f.IntVar(&c.limit, "n", 50, "maximum number of coins listed, 0 for all")
}

func (c *coinsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		coins, err := s.market.List(ctx)
		if err != nil {
			return err
		}
		coins = filterCoins(coins, c.filter, c.limit)
		printMarkdown(renderer.RenderSuggestions(renderer.NewSuggestions(c.filter, coins, s.engine.Portfolio().Has)))
		return nil
	})
}

// filterCoins keeps at most limit coins matching filter, case insensitive.
func filterCoins(coins []bags.Coin, filter string, limit int) []bags.Coin {
	filter = strings.ToLower(strings.TrimSpace(filter))
	var result []bags.Coin
	for _, c := range coins {
		if limit > 0 && len(result) >= limit {
			break
		}
		if filter == "" ||
			strings.Contains(strings.ToLower(c.ID), filter) ||
			strings.Contains(strings.ToLower(c.Name), filter) ||
			strings.Contains(strings.ToLower(c.Symbol), filter) {
			result = append(result, c)
		}
	}
	return result
}

type coinCmd struct{}

func (*coinCmd) Name() string     { return "coin" }
func (*coinCmd) Synopsis() string { return "display the detail of a coin" }
func (*coinCmd) Usage() string {
	return `yb coin <coin id>

  Displays the name, symbol, logo and current price of a coin.
`
}

func (*coinCmd) SetFlags(*flag.FlagSet) {}

func (*coinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: coin takes a single coin id")
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *session) error {
		d, err := s.market.Coin(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderCoin(d))
		return nil
	})
}
