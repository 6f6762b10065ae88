package lpr

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is a loosely typed JSON object from the backend. Every accessor tolerates
// missing keys and unexpected types.
type Record map[string]any

func (r Record) Value(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns key only when it holds a JSON string.
func (r Record) String(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Text renders strings and numbers as text; it is meant for display fields such as codes.
func (r Record) Text(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func (r Record) Float(key string) (float64, bool) {
	v, ok := r.Value(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func (r Record) Int(key string) (int, bool) {
	f, ok := r.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func (r Record) Bool(key string) (bool, bool) {
	v, ok := r.Value(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (r Record) Record(key string) Record {
	v, ok := r.Value(key)
	if !ok {
		return nil
	}
	return asRecord(v)
}

// Records returns the objects of a list field, skipping entries that are not objects.
func (r Record) Records(key string) []Record {
	v, ok := r.Value(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if rec := asRecord(item); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

func asRecord(v any) Record {
	switch t := v.(type) {
	case map[string]any:
		return Record(t)
	case Record:
		return t
	}
	return nil
}
