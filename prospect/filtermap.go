package prospect

import (
	"encoding/json"
	"fmt"
)

// Filter map keys understood by the predicate engine. A key's presence means
// the predicate is active; setters guarantee no empty-but-present entries.
const (
	KeyStatus    = "status"
	KeyPrice     = "price"
	KeyBeds      = "beds"
	KeyBaths     = "baths"
	KeySqft      = "sqft"
	KeyYearBuilt = "year_built"
	KeyScore     = "score"
	KeyCity      = "city"
	KeyState     = "state"
	KeyZip       = "zip"
	KeyKeyword   = "keyword"
	KeyEnriched  = "enriched"
	KeyPriceDrop = "price_drop"
	KeyHighValue = "high_value"
	KeyNewDays   = "new_days"
)

// Range is a half-open numeric bound; nil means unbounded on that side.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (r Range) empty() bool { return r.Min == nil && r.Max == nil }

// Contains reports whether v falls within the bounds.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Value is one filter value: exactly one of a string, a string list, or a
// numeric range, mirroring the JSON shapes of the apollo URL parameter.
type Value struct {
	Str   string
	List  []string
	Range *Range
}

func (v Value) isEmpty() bool {
	return v.Str == "" && len(v.List) == 0 && (v.Range == nil || v.Range.empty())
}

// MarshalJSON emits the active variant unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Range != nil:
		return json.Marshal(v.Range)
	case v.List != nil:
		return json.Marshal(v.List)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON accepts a JSON string, string array, or {min,max} object.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value{Str: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = Value{List: list}
		return nil
	}
	var r Range
	if err := json.Unmarshal(data, &r); err == nil {
		*v = Value{Range: &r}
		return nil
	}
	return fmt.Errorf("filter value must be a string, string array, or min/max object")
}

// FilterMap is the user-adjustable predicate configuration. Mutate through
// the setters so empty values delete their key, keeping the active-filter
// count and URL serialization accurate.
type FilterMap map[string]Value

// SetString sets a string-valued filter; blank removes the key.
func (m FilterMap) SetString(key, val string) {
	m.put(key, Value{Str: val})
}

// SetList sets a multi-value filter; an empty list removes the key.
func (m FilterMap) SetList(key string, vals []string) {
	m.put(key, Value{List: vals})
}

// SetRange sets a numeric range filter; both bounds nil removes the key.
func (m FilterMap) SetRange(key string, min, max *float64) {
	m.put(key, Value{Range: &Range{Min: min, Max: max}})
}

// Delete removes a key.
func (m FilterMap) Delete(key string) { delete(m, key) }

func (m FilterMap) put(key string, v Value) {
	if v.isEmpty() {
		delete(m, key)
		return
	}
	m[key] = v
}

// ActiveCount returns the number of active filters.
func (m FilterMap) ActiveCount() int { return len(m) }

// Clone returns an independent copy. Range pointers are duplicated so the
// copy cannot alias the original's bounds.
func (m FilterMap) Clone() FilterMap {
	out := make(FilterMap, len(m))
	for k, v := range m {
		if v.Range != nil {
			r := *v.Range
			v.Range = &r
		}
		if v.List != nil {
			v.List = append([]string(nil), v.List...)
		}
		out[k] = v
	}
	return out
}

// EncodeFilterMap serializes the map for the apollo URL parameter. An empty
// map encodes to the empty string (parameter omitted).
func EncodeFilterMap(m FilterMap) string {
	if len(m) == 0 {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeFilterMap parses the apollo URL parameter. Malformed JSON falls back
// to an empty map rather than failing the page load.
func DecodeFilterMap(raw string) FilterMap {
	out := make(FilterMap)
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return make(FilterMap)
	}
	// Drop entries a buggy client may have sent empty.
	for k, v := range out {
		if v.isEmpty() {
			delete(out, k)
		}
	}
	return out
}
