// Package record provides the schema-less row type returned by the report API.
//
// A Record keeps the order in which keys arrived on the wire so that table
// columns derived from it are stable between renders.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an ordered mapping from column name to scalar value.
type Record struct {
	keys   []string
	values map[string]any
}

// New creates a record from alternating key/value pairs.
// It panics if pairs has an odd length or a key is not a string.
func New(pairs ...any) Record {
	if len(pairs)%2 != 0 {
		panic("record.New: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.New: key at position %d is %T, not string", i, pairs[i]))
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

// Set stores value under key, appending key if it is new.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the record keys in arrival order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object, keeping key order.
// Numbers are kept as json.Number so large integer ids survive intact.
// A JSON null decodes to an empty record.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Record{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected object key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: decoding %q: %w", key, err)
		}
		r.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("record: encoding %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Columns returns the column set for a result: the keys of the first row.
// An empty result has no columns.
func Columns(rows []Record) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// FormatValue renders a value for display in a table cell.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case []byte:
		return string(val)
	case json.Number:
		return val.String()
	case map[string]any, []any, Record:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}
