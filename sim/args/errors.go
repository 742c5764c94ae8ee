package args

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequired is reported for a required key absent from the input.
var ErrMissingRequired = errors.New("missing required argument")

// ErrUnknownArgument is reported for an input key nothing declared.
var ErrUnknownArgument = errors.New("unknown argument")

// ConversionError reports raw text that cannot be interpreted as the target type.
type ConversionError struct {
	Value string
	Msg   string
}

func (e *ConversionError) Error() string { return e.Msg }

// ValidationError reports a converted value rejected by a range or by an
// access-mode check.
type ValidationError struct {
	Value string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// DeclarationConflict is raised (as a panic value) when a key is declared both
// required and optional, or declared after the set was frozen.
type DeclarationConflict struct {
	Key    Key
	Reason string
}

func (e *DeclarationConflict) Error() string {
	return fmt.Sprintf("args: declaration of %s: %s", e.Key, e.Reason)
}

// KeyFailure pairs a key with the reason it failed to read.
type KeyFailure struct {
	Key Key
	Err error
}

// ReadError collects every key that failed during Declarations.Read.
type ReadError struct {
	Failures []KeyFailure
}

// Error renders one "--flag: reason" line per failing key.
func (e *ReadError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, fmt.Sprintf("%s: %v", f.Key, f.Err))
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the per-key errors to errors.Is and errors.As.
func (e *ReadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Failed reports whether key is among the failures.
func (e *ReadError) Failed(key Key) bool {
	for _, f := range e.Failures {
		if f.Key == key {
			return true
		}
	}
	return false
}
