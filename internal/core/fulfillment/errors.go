package fulfillment

import (
	"errors"
	"fmt"
)

// Recoverable error kinds. A handler returning one of them wrapped in a
// TurnError still produces a normal answer: the error's utterance.
var (
	ErrNotFound       = errors.New("not found")
	ErrMissingField   = errors.New("missing field")
	ErrMissingSubject = errors.New("no component selected")
)

// apology is said for any error that is not recoverable.
const apology = "Sorry, something went wrong while I was looking that up. Please try again in a moment."

// TurnError is a recoverable failure carrying what to tell the user.
type TurnError struct {
	Kind      error
	Utterance string
	Err       error
}

func (e *TurnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *TurnError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func notFound(utterance string, err error) error {
	return &TurnError{Kind: ErrNotFound, Utterance: utterance, Err: err}
}

func missingField(utterance string) error {
	return &TurnError{Kind: ErrMissingField, Utterance: utterance}
}

var errMissingSubject = &TurnError{Kind: ErrMissingSubject}

func noInfo(kind string) string {
	return fmt.Sprintf("This component doesn't appear to have %s information to share.", kind)
}
