package ot

import "fmt"

// Option is an optional value. ContextualRule candidates use it for the
// output glyph, which is None where the nested lookup does not substitute.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None is the empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome is true for a non-empty option.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// Unwrap returns the value in the "(value, ok)" manner.
func (o Option[T]) Unwrap() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}
