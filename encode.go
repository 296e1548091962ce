package bags

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultKey is the storage key of the portfolio snapshot.
const DefaultKey = "yourBags"

// record is the durable form of a Holding. Prices are never part of it.
type record struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol,omitempty"`
	Quantity Quantity `json:"quantity"`
}

// MarshalJSON keeps the field order stable across versions.
func (r record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("name", r.Name)
	w.Optional("symbol", r.Symbol)
	w.Append("quantity", r.Quantity)
	return w.MarshalJSON()
}

// EncodeHoldings writes the ordered sequence of holdings as a JSON array of
// {id, name, symbol, quantity} records.
func EncodeHoldings(w io.Writer, holdings []Holding) error {
	records := make([]record, 0, len(holdings))
	for _, h := range holdings {
		records = append(records, record{ID: h.ID, Name: h.Name, Symbol: h.Symbol, Quantity: h.Quantity})
	}
	content, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cannot encode holdings: %w", err)
	}
	_, err = w.Write(content)
	return err
}

// DecodeHoldings reads a sequence written by EncodeHoldings.
//
// Holdings are returned with an unknown price. A record with an empty id or a
// negative quantity makes the whole snapshot invalid. Duplicate ids keep the
// first occurrence.
func DecodeHoldings(r io.Reader) ([]Holding, error) {
	var records []record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("format error: %w", err)
	}
	holdings := make([]Holding, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("format error: record #%d has no id", i)
		}
		if rec.Quantity.IsNegative() {
			return nil, fmt.Errorf("format error: record #%d %q: %w", i, rec.ID, ErrInvalidQuantity)
		}
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		holdings = append(holdings, Holding{ID: rec.ID, Name: rec.Name, Symbol: rec.Symbol, Quantity: rec.Quantity})
	}
	return holdings, nil
}

// snapshot encodes holdings in memory.
func snapshot(holdings []Holding) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeHoldings(&buf, holdings); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
