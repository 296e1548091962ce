// Package bags keeps a crypto portfolio: an ordered list of held coins, their
// quantity, and their latest USD price.
//
// The core pieces are:
//   - Portfolio: the in-memory ordered holdings, the single source of truth.
//     Every mutation is written back to a Storage under a fixed key.
//   - Valuate: a pure function computing per-holding and total value.
//   - PriceFetcher and Catalog: the contracts of the external price service,
//     implemented by package coingecko.
//   - Engine: owns a Portfolio and implements the user intents (add, remove,
//     set quantity, reorder, refresh prices, search).
//   - AddFlow: the search-as-you-type add state machine.
//
// Prices are transient, they are never persisted and must be refreshed after
// loading a portfolio. Nothing in this package is fatal: a failed fetch keeps
// the last known prices, and a corrupt snapshot loads as an empty portfolio.
//
// This package serves as the foundational logic for the `yb` command-line
// tool.
package bags
