package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove a coin from your bags" }
func (*rmCmd) Usage() string {
	return `yb rm <coin id>

  Removes the coin from your bags.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: rm takes a single coin id")
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *session) error {
		if err := s.engine.Remove(f.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed %s.\n", f.Arg(0))
		return nil
	})
}

type qtyCmd struct{}

func (*qtyCmd) Name() string     { return "qty" }
func (*qtyCmd) Synopsis() string { return "set the quantity held of a coin" }
func (*qtyCmd) Usage() string {
	return `yb qty <coin id> <quantity>

  Replaces the quantity held. The quantity is a decimal number >= 0, a
  quantity of 0 keeps the coin in your bags.

Usage Examples:
$ yb qty bitcoin 0.25
`
}

func (*qtyCmd) SetFlags(*flag.FlagSet) {}

func (*qtyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: qty takes a coin id and a quantity")
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *session) error {
		if err := s.engine.SetQuantity(f.Arg(0), f.Arg(1)); err != nil {
			return err
		}
		h, _ := s.engine.Portfolio().Holding(f.Arg(0))
		fmt.Fprintf(stdout, "%s quantity is now %v.\n", h.ID, h.Quantity)
		return nil
	})
}

type moveCmd struct{}

func (*moveCmd) Name() string     { return "move" }
func (*moveCmd) Synopsis() string { return "move a coin to another position" }
func (*moveCmd) Usage() string {
	return `yb move <from> <to>

  Moves the coin at position <from> to position <to>, the coins in between
  shift by one. Positions are the # column of 'yb show', starting at 1.
`
}

func (*moveCmd) SetFlags(*flag.FlagSet) {}

func (*moveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: move takes two positions")
		return subcommands.ExitUsageError
	}
	from, err := parsePosition(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := parsePosition(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *session) error {
		return s.engine.Reorder(from, to)
	})
}

// parsePosition converts a 1-based position into an index.
func parsePosition(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 {
		return 0, fmt.Errorf("invalid position %q: want a number >= 1", s)
	}
	return p - 1, nil
}
