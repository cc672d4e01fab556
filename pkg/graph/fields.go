package graph

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// fields reads a raw record through key aliases and remembers which keys
// were consumed so the rest can be kept as attributes.
type fields struct {
	m    map[string]any
	used map[string]bool
}

func newFields(v any) (*fields, bool) {
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	return &fields{m: m, used: make(map[string]bool)}, true
}

func (f *fields) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := f.m[k]; ok && v != nil {
			f.used[k] = true
			return v, true
		}
	}
	return nil, false
}

func (f *fields) str(keys ...string) string {
	v, ok := f.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

func (f *fields) num(keys ...string) (float64, bool) {
	v, ok := f.lookup(keys...)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func (f *fields) integer(keys ...string) int {
	v, _ := f.num(keys...)
	return int(v)
}

func (f *fields) boolean(keys ...string) bool {
	v, ok := f.lookup(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}

func (f *fields) timestamp(keys ...string) time.Time {
	v, ok := f.lookup(keys...)
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC()
			}
		}
	default:
		if secs, ok := toFloat(t); ok {
			if secs > 1e12 {
				return time.UnixMilli(int64(secs)).UTC()
			}
			return time.Unix(int64(secs), 0).UTC()
		}
	}
	return time.Time{}
}

// rest returns the keys nobody consumed, or nil.
func (f *fields) rest() map[string]any {
	var out map[string]any
	for k, v := range f.m {
		if f.used[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

// toFloat rejects NaN and infinities so they never reach element output.
func toFloat(v any) (float64, bool) {
	f, ok := rawFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func rawFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// asMap accepts both JSON-style and YAML-style maps.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

func list(payload map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			if l, ok := v.([]any); ok {
				return l, true
			}
		}
	}
	return nil, false
}
