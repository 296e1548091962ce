package cmd

import (
	"context"
	"flag"

	"github.com/etnz/bags/renderer"
	"github.com/google/subcommands"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch the latest prices and display your bags" }
func (*refreshCmd) Usage() string {
	return `yb refresh

  Fetches the USD price of every holding in a single request. On failure the
  command fails and nothing is retried.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if err := s.engine.RefreshPrices(ctx); err != nil {
			return err
		}
		printMarkdown(renderer.RenderReport(renderer.NewReport("Your Bags", s.engine.Valuation())))
		return nil
	})
}
