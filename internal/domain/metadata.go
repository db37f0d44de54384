package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Metadata holds the structured fields of a document. Values are strings
// or numbers (float64 after JSON decoding).
type Metadata map[string]any

// FieldType is the declared type of a filterable metadata field.
type FieldType int

const (
	// FieldString matches string metadata values.
	FieldString FieldType = iota
	// FieldNumber matches numeric metadata values.
	FieldNumber
)

// filterSchema is the closed set of metadata keys callers may filter on,
// mirroring the fields the indexer writes. Filters on anything else are
// rejected before query construction.
var filterSchema = map[string]FieldType{
	"type":          FieldString, // "product" or "review"
	"name":          FieldString,
	"category":      FieldString,
	"brand":         FieldString,
	"origin":        FieldString,
	"productName":   FieldString,
	"customerName":  FieldString,
	"price":         FieldNumber,
	"averageRating": FieldNumber,
	"rating":        FieldNumber,
	"productId":     FieldNumber,
}

// FilterKeys returns the allowed filter keys in sorted order.
func FilterKeys() []string {
	keys := make([]string, 0, len(filterSchema))
	for k := range filterSchema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateFilters checks filter keys and value types against the schema.
// A nil or empty filter map is valid (no constraint).
func ValidateFilters(filters Metadata) error {
	for key, val := range filters {
		ft, ok := filterSchema[key]
		if !ok {
			return fmt.Errorf("%w: unknown filter field %q (allowed: %s)",
				ErrValidation, key, strings.Join(FilterKeys(), ", "))
		}
		switch val.(type) {
		case string:
			if ft != FieldString {
				return fmt.Errorf("%w: filter field %q expects a number", ErrValidation, key)
			}
		case float64, float32, int, int64:
			if ft != FieldNumber {
				return fmt.Errorf("%w: filter field %q expects a string", ErrValidation, key)
			}
		default:
			return fmt.Errorf("%w: filter field %q has unsupported value type %T", ErrValidation, key, val)
		}
	}
	return nil
}

// Matches reports whether every filter key equals the corresponding
// metadata value (exact-match conjunction). Numeric values compare by
// value regardless of concrete Go type.
func (m Metadata) Matches(filters Metadata) bool {
	for key, want := range filters {
		got, ok := m[key]
		if !ok {
			return false
		}
		wf, wNum := asNumber(want)
		gf, gNum := asNumber(got)
		if wNum && gNum {
			if wf != gf {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
