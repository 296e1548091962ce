package coingecko

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/bags"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the CoinGecko API.

// FetchPrices returns the USD quote of each known id.
//
// Ids unknown to CoinGecko are simply absent from the result. An empty set of
// ids performs no request.
func (c *Client) FetchPrices(ctx context.Context, ids []string) (map[string]bags.Quote, error) {
	// https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=usd&include_24hr_change=true
	// {
	//   "bitcoin": { "usd": 67187.33, "usd_24h_change": 3.63 },
	//   "ethereum": { "usd": 3545.12, "usd_24h_change": -0.47 }
	// }
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	result := make(map[string]bags.Quote, len(uniq))
	if len(uniq) == 0 {
		return result, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(uniq, ","))
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")
	addr := c.baseURL + "/simple/price?" + params.Encode()

	type Info struct {
		USD       *decimal.Decimal `json:"usd"`
		Change24h *decimal.Decimal `json:"usd_24h_change"`
	}
	content := make(map[string]Info)
	if err := c.jwget(ctx, c.http, addr, &content); err != nil {
		return nil, err
	}
	for id, info := range content {
		if info.USD == nil {
			// listed without a usd price, same as unknown.
			continue
		}
		result[id] = bags.Quote{USD: *info.USD, Change24h: info.Change24h}
	}
	return result, nil
}

// Search returns the coins matching query, deduplicated by id with the first
// occurrence kept. Queries shorter than bags.MinQueryLength return nothing
// without a request.
func (c *Client) Search(ctx context.Context, query string) ([]bags.Coin, error) {
	// https://api.coingecko.com/api/v3/search?query=bit
	// {
	//   "coins": [
	//     { "id": "bitcoin", "name": "Bitcoin", "api_symbol": "bitcoin", "symbol": "BTC", "market_cap_rank": 1, "thumb": "..." },
	//   ],
	//   "exchanges": [], ...
	// }
	query = strings.TrimSpace(query)
	if len([]rune(query)) < bags.MinQueryLength {
		return nil, nil
	}
	addr := c.baseURL + "/search?" + url.Values{"query": {query}}.Encode()

	var content struct {
		Coins []bags.Coin `json:"coins"`
	}
	if err := c.jwget(ctx, c.http, addr, &content); err != nil {
		return nil, err
	}
	return bags.DedupeCoins(content.Coins), nil
}

// List returns every coin of the catalog, deduplicated by id.
//
// The list is large and changes slowly, it is fetched at most once a day.
func (c *Client) List(ctx context.Context) ([]bags.Coin, error) {
	// https://api.coingecko.com/api/v3/coins/list
	// [ { "id": "01coin", "symbol": "zoc", "name": "01coin" }, ... ]
	addr := c.baseURL + "/coins/list"
	content := make([]bags.Coin, 0)
	if err := c.jwget(ctx, c.daily, addr, &content); err != nil {
		return nil, fmt.Errorf("failed to fetch coin list: %w", err)
	}
	return bags.DedupeCoins(content), nil
}

// Coin returns the detail of the coin id: its name, symbol, logo and current
// USD price.
func (c *Client) Coin(ctx context.Context, id string) (bags.CoinDetail, error) {
	// https://api.coingecko.com/api/v3/coins/bitcoin?localization=false&tickers=false&community_data=false&developer_data=false
	// {
	//   "id": "bitcoin", "symbol": "btc", "name": "Bitcoin",
	//   "image": { "thumb": "...", "small": "...", "large": "..." },
	//   "market_data": { "current_price": { "usd": 67187, "eur": 62000, ... }, ... }
	// }
	id = strings.TrimSpace(id)
	if id == "" {
		return bags.CoinDetail{}, bags.ErrEmptyID
	}
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")
	addr := c.baseURL + "/coins/" + url.PathEscape(id) + "?" + params.Encode()

	var jobj any
	if err := c.jwget(ctx, c.http, addr, &jobj); err != nil {
		return bags.CoinDetail{}, err
	}

	var detail bags.CoinDetail
	var err error
	if detail.ID, err = pathString("$.id", jobj); err != nil {
		return bags.CoinDetail{}, fmt.Errorf("coin %q: %w", id, err)
	}
	if detail.Name, err = pathString("$.name", jobj); err != nil {
		return bags.CoinDetail{}, fmt.Errorf("coin %q: %w", id, err)
	}
	// symbol and image are optional.
	detail.Symbol, _ = pathString("$.symbol", jobj)
	detail.Image, _ = pathString("$.image.large", jobj)

	if price, err := pathFloat("$.market_data.current_price.usd", jobj); err == nil {
		detail.CurrentPriceUSD = decimal.NewFromFloat(price)
		detail.Priced = true
	} else {
		c.log.WithError(err).WithField("id", id).Debug("coin detail has no usd price")
	}
	return detail, nil
}

// pathString evaluates a JSONPath expected to return a string.
func pathString(path string, jobj any) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: not a string %v", path, jval)
	}
	return s, nil
}

// pathFloat evaluates a JSONPath expected to return a finite number.
func pathFloat(path string, jobj any) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %w", path, err)
	}
	val, ok := jval.(float64)
	if !ok || math.IsNaN(val) || math.IsInf(val, 0) {
		return math.NaN(), fmt.Errorf("error parsing %q: not a float %v", path, jval)
	}
	return val, nil
}
