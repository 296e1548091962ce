package bags

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose keys keep their insertion
// order. The zero value is an empty object.
type jsonObjectWriter struct {
	buf bytes.Buffer
	err error
}

// Append writes key with value encoded by json.Marshal. The first encoding
// error is kept and returned by MarshalJSON.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return w
	}
	k, _ := json.Marshal(key)
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
	return w
}

// Optional is Append, skipped for the zero value of its type.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
