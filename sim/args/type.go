// Package args validates and converts raw textual configuration values.
//
// An argument Type names a class of acceptable values. Limited[T] is the
// general form: a converter from text to T plus an ordered list of Range
// predicates that must all accept the converted value. Types are composed by
// cloning with extra ranges, which only ever narrows the accepted set and
// never touches the prototype being cloned.
//
// Declarations binds (category, name) keys to a Type, a required/optional
// flag and documentation, and resolves raw input into typed Values.
package args

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Type is the untyped view of an argument type used by Declarations.
type Type interface {
	// Title is a short human-readable description of the accepted values.
	Title() string
	// Check converts raw and evaluates every range, returning a
	// *ConversionError or *ValidationError on failure.
	Check(raw string) error
}

// Typed is a Type that also yields the converted value.
type Typed[T any] interface {
	Type
	Convert(raw string) (T, error)
}

// Limited is an argument type with an ordered, owned list of ranges.
type Limited[T any] struct {
	title   string
	convert func(string) (T, error)
	ranges  []Range[T]
}

// NewLimited builds a Limited from a title, a converter and initial ranges.
// A converter error message becomes the ConversionError text.
func NewLimited[T any](title string, convert func(string) (T, error), ranges ...Range[T]) *Limited[T] {
	return &Limited[T]{
		title:   title,
		convert: convert,
		ranges:  slices.Clone(ranges),
	}
}

// Title returns the base title followed by each range description.
func (l *Limited[T]) Title() string {
	return composeTitle(l.title, l.ranges)
}

// Convert turns raw into a T without evaluating ranges.
func (l *Limited[T]) Convert(raw string) (T, error) {
	v, err := l.convert(raw)
	if err != nil {
		var zero T
		return zero, &ConversionError{Value: raw, Msg: err.Error()}
	}
	return v, nil
}

// Check converts raw and evaluates the ranges in order, stopping at the
// first one that rejects the value.
func (l *Limited[T]) Check(raw string) error {
	v, err := l.Convert(raw)
	if err != nil {
		return err
	}
	return checkRanges(raw, v, l.ranges)
}

// Ranges returns a copy of the composed ranges.
func (l *Limited[T]) Ranges() []Range[T] {
	return slices.Clone(l.ranges)
}

// Clone returns an independent copy with extra ranges appended.
func (l *Limited[T]) Clone(extra ...Range[T]) *Limited[T] {
	ranges := make([]Range[T], 0, len(l.ranges)+len(extra))
	ranges = append(ranges, l.ranges...)
	ranges = append(ranges, extra...)
	return &Limited[T]{title: l.title, convert: l.convert, ranges: ranges}
}

func checkRanges[T any](raw string, v T, ranges []Range[T]) error {
	for _, r := range ranges {
		if err := r.Check(v); err != nil {
			return &ValidationError{Value: raw, Msg: err.Error()}
		}
	}
	return nil
}

func composeTitle[T any](title string, ranges []Range[T]) string {
	if len(ranges) == 0 {
		return title
	}
	parts := make([]string, 0, len(ranges)+1)
	parts = append(parts, title)
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}

// Integer is a base-10 integer argument.
func Integer(ranges ...Range[int]) *Limited[int] {
	return NewLimited("integer", func(raw string) (int, error) {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, fmt.Errorf("shall be an integer")
		}
		return v, nil
	}, ranges...)
}

// Real is a floating-point argument.
func Real(ranges ...Range[float64]) *Limited[float64] {
	return NewLimited("real number", func(raw string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("shall be a real number")
		}
		return v, nil
	}, ranges...)
}

// Text is a free-form string argument.
func Text(ranges ...Range[string]) *Limited[string] {
	return NewLimited("text", func(raw string) (string, error) {
		return raw, nil
	}, ranges...)
}

// Boolean is a flag argument; a bare flag arrives as "true".
func Boolean() *Limited[bool] {
	return NewLimited("boolean", func(raw string) (bool, error) {
		if raw == "" {
			return true, nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("shall be a boolean")
		}
		return v, nil
	})
}

// Polynomials is a list of octal generator polynomials written "{13,15}".
func Polynomials(ranges ...Range[[]int]) *Limited[[]int] {
	return NewLimited("octal polynomials", parsePolynomials, ranges...)
}

func parsePolynomials(raw string) ([]int, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("shall be a list of octal polynomials like {13,15}")
	}
	fields := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}"), ",")
	polys := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 8, 32)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("shall be a list of octal polynomials like {13,15}")
		}
		polys = append(polys, int(v))
	}
	return polys, nil
}

// Count accepts lists with exactly n elements.
func Count[E any](n int) Range[[]E] {
	return NewRange(fmt.Sprintf("%d elements", n), func(v []E) error {
		if len(v) != n {
			return fmt.Errorf("shall contain exactly %d elements", n)
		}
		return nil
	})
}
