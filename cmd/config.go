package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/bags"
	"github.com/etnz/bags/coingecko"
	"github.com/etnz/bags/storage"
	"github.com/spf13/viper"
)

// Config is the yb configuration, read from bags.yaml and BAGS_* environment
// variables.
type Config struct {
	Store     string              `mapstructure:"store"` // dir, redis or memory
	StoreDir  string              `mapstructure:"store_dir"`
	Key       string              `mapstructure:"key"`
	Redis     storage.RedisConfig `mapstructure:"redis"`
	CoinGecko coingecko.Config    `mapstructure:"coingecko"`
	CacheDir  string              `mapstructure:"cache_dir"`
	LogLevel  string              `mapstructure:"log_level"`
	Verbose   bool                `mapstructure:"verbose"` // forces the debug level
}

// defaultDir is the folder of the configuration file and of the portfolio.
func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bags"
	}
	return filepath.Join(home, ".config", "bags")
}

// LoadConfig reads the configuration. An explicit file must exist, otherwise
// bags.yaml is looked up in the working directory and in $HOME/.config/bags,
// and is optional.
func LoadConfig(v *viper.Viper, file string) (Config, error) {
	dir := defaultDir()
	v.SetDefault("store", "dir")
	v.SetDefault("store_dir", dir)
	v.SetDefault("key", bags.DefaultKey)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "bags:")
	v.SetDefault("coingecko.base_url", coingecko.DefaultBaseURL)
	v.SetDefault("coingecko.api_key", "")
	v.SetDefault("coingecko.timeout", "0s")
	v.SetDefault("cache_dir", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("BAGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("bags")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("cannot read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.CoinGecko.CacheDir == "" {
		cfg.CoinGecko.CacheDir = cfg.CacheDir
	}
	if cfg.Key == "" {
		cfg.Key = bags.DefaultKey
	}
	return cfg, nil
}
