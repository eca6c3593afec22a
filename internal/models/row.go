package models

import (
	"bytes"
	"encoding/json"
)

// Row is an ordered, schema-less record. Spreadsheet columns are inferred
// from the first row's keys at render time, so insertion order has to
// survive; a plain map would randomize it.
type Row struct {
	keys   []string
	values map[string]interface{}
}

// NewRow returns an empty row sized for n fields.
func NewRow(n int) Row {
	return Row{
		keys:   make([]string, 0, n),
		values: make(map[string]interface{}, n),
	}
}

// Set stores a value, appending the key on first sight.
func (r *Row) Set(key string, value interface{}) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the stored value and whether the key is present.
func (r Row) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field keys in insertion order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields in the row.
func (r Row) Len() int {
	return len(r.keys)
}

// MarshalJSON emits the fields in insertion order.
func (r Row) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
