package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/etnz/bags"
	"github.com/etnz/bags/storage"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Completion returns the shell completion of yb.
func Completion() *complete.Command {
	held := complete.PredictFunc(predictHeld)
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"store-dir": predict.Dirs("*"),
			"v":         predict.Nothing,
			"raw":       predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"show":    {Flags: map[string]complete.Predictor{"r": predict.Nothing}},
			"add":     {Flags: map[string]complete.Predictor{"q": predict.Something, "n": predict.Something}, Args: predict.Something},
			"rm":      {Args: held},
			"qty":     {Args: held},
			"move":    {Args: predict.Something},
			"refresh": {},
			"search":  {Args: predict.Something},
			"coins":   {Flags: map[string]complete.Predictor{"filter": predict.Something, "n": predict.Something}},
			"coin":    {Args: held},
			"topic":   {Flags: map[string]complete.Predictor{"l": predict.Nothing}, Args: predict.Set{"readme", "bags", "config", "storage", "*"}},
		},
	}
}

// predictHeld lists the held coin ids. It reads the folder storage only, a
// completion must never wait on the network.
func predictHeld(prefix string) []string {
	cfg, err := LoadConfig(viper.New(), os.Getenv(EnvConfigFile))
	if err != nil || (cfg.Store != "" && cfg.Store != "dir") {
		return nil
	}
	if _, err := os.Stat(cfg.StoreDir); err != nil {
		return nil
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	p := bags.Load(context.Background(), storage.NewDir(cfg.StoreDir), cfg.Key, logrus.NewEntry(quiet))
	var ids []string
	for _, id := range p.IDs() {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids
}
