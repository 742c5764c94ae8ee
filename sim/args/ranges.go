package args

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Range is a predicate composed onto an argument type. Check returns nil when
// v is accepted, otherwise an error whose text is the user-facing diagnostic.
type Range[T any] interface {
	Check(v T) error
	String() string
}

type rangeFunc[T any] struct {
	desc  string
	check func(T) error
}

func (r rangeFunc[T]) Check(v T) error { return r.check(v) }
func (r rangeFunc[T]) String() string  { return r.desc }

// NewRange builds a Range from a description and a predicate.
func NewRange[T any](desc string, check func(T) error) Range[T] {
	return rangeFunc[T]{desc: desc, check: check}
}

// Number is the constraint for numeric argument values.
type Number interface {
	~int | ~int64 | ~float64
}

// Positive accepts values strictly greater than zero.
func Positive[T Number]() Range[T] {
	return NewRange("positive", func(v T) error {
		if v <= 0 {
			return fmt.Errorf("shall be positive")
		}
		return nil
	})
}

// NonNegative accepts values greater than or equal to zero.
func NonNegative[T Number]() Range[T] {
	return NewRange("non-negative", func(v T) error {
		if v < 0 {
			return fmt.Errorf("shall be positive or zero")
		}
		return nil
	})
}

// NonZero rejects zero.
func NonZero[T Number]() Range[T] {
	return NewRange("non-zero", func(v T) error {
		if v == 0 {
			return fmt.Errorf("shall not be zero")
		}
		return nil
	})
}

// Min accepts values >= lo.
func Min[T cmp.Ordered](lo T) Range[T] {
	return NewRange(fmt.Sprintf("min %v", lo), func(v T) error {
		if v < lo {
			return fmt.Errorf("shall be at least %v", lo)
		}
		return nil
	})
}

// Max accepts values <= hi.
func Max[T cmp.Ordered](hi T) Range[T] {
	return NewRange(fmt.Sprintf("max %v", hi), func(v T) error {
		if v > hi {
			return fmt.Errorf("shall be at most %v", hi)
		}
		return nil
	})
}

// Between accepts values in [lo, hi].
func Between[T cmp.Ordered](lo, hi T) Range[T] {
	return NewRange(fmt.Sprintf("[%v..%v]", lo, hi), func(v T) error {
		if v < lo || v > hi {
			return fmt.Errorf("shall be between %v and %v", lo, hi)
		}
		return nil
	})
}

// Including accepts only members of set.
func Including[T comparable](set ...T) Range[T] {
	set = slices.Clone(set)
	desc := formatSet(set)
	return NewRange("in "+desc, func(v T) error {
		if !slices.Contains(set, v) {
			return fmt.Errorf("shall be in the set %s", desc)
		}
		return nil
	})
}

// Excluding rejects members of set.
func Excluding[T comparable](set ...T) Range[T] {
	set = slices.Clone(set)
	desc := formatSet(set)
	return NewRange("not in "+desc, func(v T) error {
		if slices.Contains(set, v) {
			return fmt.Errorf("shall not be in the set %s", desc)
		}
		return nil
	})
}

// Length accepts strings whose length lies in [lo, hi]; hi <= 0 means unbounded.
func Length(lo, hi int) Range[string] {
	desc := fmt.Sprintf("length >= %d", lo)
	if hi > 0 {
		desc = fmt.Sprintf("length [%d..%d]", lo, hi)
	}
	return NewRange(desc, func(v string) error {
		if len(v) < lo || (hi > 0 && len(v) > hi) {
			return fmt.Errorf("shall have a %s", desc)
		}
		return nil
	})
}

// Extension accepts paths ending with one of exts (case-insensitive).
func Extension(exts ...string) Range[string] {
	exts = slices.Clone(exts)
	desc := "extension " + strings.Join(exts, "|")
	return NewRange(desc, func(v string) error {
		ext := strings.ToLower(filepath.Ext(v))
		for _, e := range exts {
			if ext == strings.ToLower(e) {
				return nil
			}
		}
		return fmt.Errorf("shall have the %s", desc)
	})
}

func formatSet[T any](set []T) string {
	parts := make([]string, len(set))
	for i, v := range set {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
