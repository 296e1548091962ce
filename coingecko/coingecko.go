// Package coingecko implements the price service and the coin catalog on top
// of the CoinGecko v3 public API.
package coingecko

import (
	"net/http"
	"strings"
	"time"

	"github.com/etnz/bags"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public CoinGecko v3 API.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Config configures a Client.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`  // optional demo API key
	Timeout  time.Duration `mapstructure:"timeout"`  // 0 means no timeout
	CacheDir string        `mapstructure:"cache_dir"` // catalog list cache, os.TempDir() if empty

	// Transport is the base round tripper, http.DefaultTransport if nil.
	Transport http.RoundTripper `mapstructure:"-"`
	Log       *logrus.Entry      `mapstructure:"-"`
}

// Client is a bags.PriceFetcher and a bags.Catalog.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client // prices, search and coin detail
	daily   *http.Client // catalog list, cached on disk for the day
	log     *logrus.Entry
}

var (
	_ bags.PriceFetcher = (*Client)(nil)
	_ bags.Catalog      = (*Client)(nil)
)

// New returns a client configured by cfg.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	log := cfg.Log.WithField("provider", "coingecko")
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Transport: cfg.Transport, Timeout: cfg.Timeout},
		daily: &http.Client{
			Transport: &diskCache{base: cfg.Transport, dir: cfg.CacheDir, log: log, now: time.Now},
			Timeout:   cfg.Timeout,
		},
		log: log,
	}
}
