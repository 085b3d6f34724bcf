package analysis

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a series cell: the parsed number when the raw cell was numeric,
// otherwise the raw string.
type Value struct {
	Raw    string
	Number float64
	IsNum  bool
}

// StringValue wraps a raw string.
func StringValue(s string) Value {
	return Value{Raw: s}
}

// NumberValue wraps a parsed number together with the cell it came from.
func NumberValue(raw string, v float64) Value {
	return Value{Raw: raw, Number: v, IsNum: true}
}

// Empty reports whether the value carries nothing to plot. Numbers, including
// zero, are never empty.
func (v Value) Empty() bool {
	return !v.IsNum && v.Raw == ""
}

// Interface returns the float64 or string the value stands for.
func (v Value) Interface() interface{} {
	if v.IsNum {
		return v.Number
	}
	return v.Raw
}

func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	}
	return v.Raw
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

type seriesField struct {
	key   string
	value Value
}

// SeriesRow is one data row projected onto the requested keys. Keys keep their
// insertion order; setting an existing key replaces its value in place.
type SeriesRow struct {
	fields []seriesField
}

// Set stores value under key.
func (r *SeriesRow) Set(key string, value Value) {
	for i := range r.fields {
		if r.fields[i].key == key {
			r.fields[i].value = value
			return
		}
	}
	r.fields = append(r.fields, seriesField{key: key, value: value})
}

// Get returns the value stored under key.
func (r SeriesRow) Get(key string) (Value, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return Value{}, false
}

// Keys returns the keys in insertion order.
func (r SeriesRow) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

// Map returns the row as a plain map of float64/string values.
func (r SeriesRow) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.fields))
	for _, f := range r.fields {
		out[f.key] = f.value.Interface()
	}
	return out
}

// MarshalJSON writes the row as an object with keys in insertion order.
func (r SeriesRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
