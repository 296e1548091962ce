// Package cmd implements the yb command line to keep your crypto bags.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/bags"
	"github.com/etnz/bags/coingecko"
	"github.com/etnz/bags/storage"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&showCmd{}, "bags")
	c.Register(&addCmd{}, "bags")
	c.Register(&rmCmd{}, "bags")
	c.Register(&qtyCmd{}, "bags")
	c.Register(&moveCmd{}, "bags")
	c.Register(&refreshCmd{}, "bags")

	c.Register(&searchCmd{}, "catalog")
	c.Register(&coinsCmd{}, "catalog")
	c.Register(&coinCmd{}, "catalog")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", "", "Path to the configuration file, bags.yaml in the current folder or in $HOME/.config/bags by default")
	storeDir    = flag.String("store-dir", "", "Folder of the portfolio snapshot, overrides store_dir")
	Verbose     = flag.Bool("v", false, "Log debug information, including every HTTP request")
	rawMarkdown = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal")
)

// stdout receives the command output.
var stdout io.Writer = os.Stdout

// session is the lifetime of a single command.
type session struct {
	cfg     Config
	log     *logrus.Logger
	market  *coingecko.Client
	engine  *bags.Engine
	closers []func() error
}

// openSession reads the configuration, connects to the storage and hydrates
// the portfolio.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := LoadConfig(viper.New(), *configFile)
	if err != nil {
		return nil, err
	}
	if *storeDir != "" {
		cfg.Store, cfg.StoreDir = "dir", *storeDir
	}
	log, err := newLogger(os.Stderr, cfg.LogLevel, *Verbose || cfg.Verbose)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: log}

	store, err := s.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	entry := logrus.NewEntry(log)
	cfg.CoinGecko.Log = entry
	s.market = coingecko.New(cfg.CoinGecko)
	s.engine = bags.Open(ctx, store, s.market, s.market, bags.WithKey(cfg.Key), bags.WithLogger(entry))
	return s, nil
}

func (s *session) openStorage(ctx context.Context) (bags.Storage, error) {
	switch s.cfg.Store {
	case "", "dir":
		if err := os.MkdirAll(s.cfg.StoreDir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create store folder: %w", err)
		}
		s.log.WithField("dir", s.cfg.StoreDir).Debug("using folder storage")
		return storage.NewDir(s.cfg.StoreDir), nil
	case "redis":
		r, err := storage.NewRedis(ctx, s.cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, r.Close)
		s.log.WithField("addr", s.cfg.Redis.Addr).Debug("using redis storage")
		return r, nil
	case "memory":
		s.log.Warn("memory storage, nothing will be saved")
		return new(storage.Memory), nil
	default:
		return nil, fmt.Errorf("unknown store %q: want dir, redis or memory", s.cfg.Store)
	}
}

// Close persists the portfolio and releases the storage.
func (s *session) Close() {
	s.engine.Close()
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.log.WithError(err).Warn("cannot close storage")
		}
	}
}

// withSession runs fn on a new session and maps its error to an exit status.
func withSession(ctx context.Context, fn func(s *session) error) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()
	if err := fn(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
