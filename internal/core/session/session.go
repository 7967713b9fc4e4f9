// Package session tracks which component and place a conversation is about.
package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenthands/dtpr/internal/webhook"
)

const (
	// ComponentContext is the output context holding the current component.
	ComponentContext = "component-context"
	// ComponentLifespan is the number of turns the component stays current.
	ComponentLifespan = 5

	paramComponentID = "componentId"
)

// Payload is the context the client page passes with every request.
type Payload struct {
	ComponentID    string `json:"componentId"`
	PlaceID        string `json:"placeId"`
	StartingIntent string `json:"startingIntent"`
}

// ParsePayload reads the client payload. Some clients send it as a JSON
// string in the userId field; that form wins when it parses.
func ParsePayload(raw map[string]any) Payload {
	if raw == nil {
		return Payload{}
	}
	if s, ok := raw["userId"].(string); ok && strings.HasPrefix(strings.TrimSpace(s), "{") {
		var inner map[string]any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			raw = inner
		}
	}
	return Payload{
		ComponentID:    str(raw["componentId"]),
		PlaceID:        str(raw["placeId"]),
		StartingIntent: str(raw["startingIntent"]),
	}
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// State is the per-turn view of the conversation. SetComponent writes
// through to the response being built.
type State struct {
	Payload        Payload
	defaultPlaceID string
	componentID    string
	out            *webhook.Builder
}

func New(req *webhook.Request, defaultPlaceID string, out *webhook.Builder) *State {
	s := &State{defaultPlaceID: defaultPlaceID, out: out}
	if req == nil {
		return s
	}
	s.Payload = ParsePayload(req.OriginalDetectIntentRequest.Payload)
	// Expired contexts are never delivered, and lifespanCount may be
	// omitted, so a zero count is still live.
	for _, c := range req.QueryResult.OutputContexts {
		if c.ShortName() != ComponentContext {
			continue
		}
		if id := str(c.Parameters[paramComponentID]); id != "" {
			s.componentID = id
		}
	}
	return s
}

// ComponentID returns the active component: the component context first,
// then the client payload. Empty means no subject.
func (s *State) ComponentID() string {
	if s.componentID != "" {
		return s.componentID
	}
	return s.Payload.ComponentID
}

// PlaceID returns the payload place or the configured default.
func (s *State) PlaceID() string {
	if s.Payload.PlaceID != "" {
		return s.Payload.PlaceID
	}
	return s.defaultPlaceID
}

func (s *State) StartingIntent() string {
	return s.Payload.StartingIntent
}

// SetComponent makes id the subject of the next ComponentLifespan turns.
func (s *State) SetComponent(id string) {
	if id == "" {
		return
	}
	s.componentID = id
	if s.out != nil {
		s.out.SetContext(ComponentContext, ComponentLifespan, map[string]any{paramComponentID: id})
	}
}
