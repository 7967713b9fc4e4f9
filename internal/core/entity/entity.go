// Package entity decides which domain entity an utterance is mainly about
// and how to look that entity up.
package entity

import (
	"fmt"
	"strings"
)

// Type is a recognized entity type. Its value is also the name of the NLU
// parameter that carries it.
type Type string

const (
	None            Type = ""
	System          Type = "system"
	PlaceAttraction Type = "place-attraction"
	Location        Type = "location"
	Component       Type = "component"
	Purpose         Type = "Purpose"
	DataProcess     Type = "data-process"
	DataType        Type = "data-type"
	TechnologyType  Type = "technology-type"
	Address         Type = "address"
)

// Priority is the order in which parameters are considered when several are
// filled. A system name that also looks like a place reads as a system.
var Priority = []Type{
	System,
	PlaceAttraction,
	Location,
	Component,
	Purpose,
	DataProcess,
	DataType,
	TechnologyType,
	Address,
}

// Parameters is the parameter bag extracted by the NLU service. Values are
// strings, lists of strings or absent.
type Parameters map[string]any

// Value returns the first non-blank string held by the parameter, trimmed.
func (p Parameters) Value(name string) string {
	v, ok := p[name]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case []string:
		for _, s := range val {
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case float64, bool:
		return fmt.Sprint(val)
	}
	return ""
}

// Classify returns the highest-priority entity type whose parameter is
// present and non-empty, or None.
func Classify(params Parameters) Type {
	for _, t := range Priority {
		if params.Value(string(t)) != "" {
			return t
		}
	}
	return None
}
