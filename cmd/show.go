package cmd

import (
	"context"
	"flag"

	"github.com/etnz/bags/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	refresh bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display your bags and their value" }
func (*showCmd) Usage() string {
	return `yb show [-r=false]

  Displays every holding in order with its quantity, price, 24h change and
  value, and the total value of the portfolio.

  Prices are never saved, they are fetched before display unless -r=false.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "r", true, "refresh prices before display")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if c.refresh {
			if err := s.engine.RefreshPrices(ctx); err != nil {
				// display what we have, prices stay unknown.
				s.log.WithError(err).Warn("cannot refresh prices")
			}
		}
		printMarkdown(renderer.RenderReport(renderer.NewReport("Your Bags", s.engine.Valuation())))
		return nil
	})
}
