package dataset

import (
	"strconv"
	"strings"
)

// FieldID is the column holding a row's stable identifier. It is distinct
// from the row key the store assigns internally.
const FieldID = "ID"

// Record is a single row as returned by the store. Fields keep the loosely
// typed JSON values; typed views live in internal/core/model. Records handed
// out by a Source must be treated as read-only.
type Record struct {
	Key         string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// ID returns the stable identifier of the record.
func (r Record) ID() string {
	return r.String(FieldID)
}

// Value returns the raw value of a field.
func (r Record) Value(field string) (any, bool) {
	if r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[field]
	return v, ok
}

// String returns a scalar field as text, or "" when absent or not scalar.
func (r Record) String(field string) string {
	v, ok := r.Value(field)
	if !ok {
		return ""
	}
	s, _ := scalarString(v)
	return s
}

// Strings returns a reference-list or multi-select field. A scalar string is
// treated as a one-element list.
func (r Record) Strings(field string) []string {
	v, ok := r.Value(field)
	if !ok || v == nil {
		return nil
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	}
	return nil
}

// Bool reports whether a field is truthy: a checked box, a non-empty string,
// a non-zero number or a non-empty list.
func (r Record) Bool(field string) bool {
	v, ok := r.Value(field)
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.TrimSpace(b) != ""
	case float64:
		return b != 0
	case int:
		return b != 0
	case []any:
		return len(b) > 0
	case []string:
		return len(b) > 0
	}
	return true
}

// Filter selects rows whose Field equals Value exactly.
type Filter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Eq builds an equality filter.
func Eq(field, value string) *Filter {
	return &Filter{Field: field, Value: value}
}

func (f *Filter) matches(r Record) bool {
	v, ok := r.Value(f.Field)
	if !ok {
		return false
	}
	s, ok := scalarString(v)
	return ok && s == f.Value
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

func applyFilter(records []Record, filter *Filter) []Record {
	if filter == nil {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	out := make([]Record, 0)
	for _, r := range records {
		if filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}
