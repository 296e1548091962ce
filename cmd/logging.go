package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger returns a text logger on w. Verbose forces the debug level.
func newLogger(w io.Writer, level string, verbose bool) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return log, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return log, nil
}
