// Package normalize reshapes backend payloads into the contract the web
// client consumes. Every function is pure: no I/O, no panics on missing or
// null fields — absent optional data degrades to defaults.
package normalize

import "strconv"

// Number coerces a backend value that may arrive as a JSON string or number
// into a float64. nil stays nil; anything unparseable also degrades to nil.
func Number(v interface{}) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// NumberFields coerces the named fields of a generic object in place.
func NumberFields(obj map[string]interface{}, fields ...string) {
	if obj == nil {
		return
	}
	for _, field := range fields {
		v, ok := obj[field]
		if !ok || v == nil {
			continue
		}
		if n := Number(v); n != nil {
			obj[field] = *n
		}
	}
}
