package resolve

import "iter"

// Product is the Cartesian product of a list of candidate lists. It is lazy
// and restartable: combinations are produced on demand, and every call of
// All starts from the first combination again.
type Product[T any] struct {
	lists [][]T
}

// NewProduct creates the product of lists. The lists are not copied and must
// not be changed while the product is in use.
func NewProduct[T any](lists [][]T) *Product[T] {
	return &Product[T]{lists: lists}
}

// Size returns the number of combinations. A product with an empty list
// (or without any list) is empty.
func (p *Product[T]) Size() int {
	if len(p.lists) == 0 {
		return 0
	}
	n := 1
	for _, l := range p.lists {
		n *= len(l)
	}
	return n
}

// All iterates over all combinations, the last position varying fastest.
// Each combination is a fresh slice which the caller may keep.
func (p *Product[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if p.Size() == 0 {
			return
		}
		index := make([]int, len(p.lists))
		for {
			combo := make([]T, len(p.lists))
			for i, l := range p.lists {
				combo[i] = l[index[i]]
			}
			if !yield(combo) {
				return
			}
			i := len(index) - 1
			for ; i >= 0; i-- {
				index[i]++
				if index[i] < len(p.lists[i]) {
					break
				}
				index[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}
