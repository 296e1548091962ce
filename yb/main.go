// Command yb keeps your crypto bags: the coins you hold, how many, and what
// they are worth in USD.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/bags/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	// BAGS_* settings may come from a .env file.
	_ = godotenv.Load()

	cmd.Completion().Complete("yb")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !isRegistered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// isRegistered reports whether name is a builtin subcommand.
func isRegistered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			found = true
		}
	})
	return found
}
