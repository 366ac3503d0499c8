package ast

// Arena is a flat append-only store with 1-based indices. Index 0 is the
// null handle for every node kind.
type Arena[T any] struct {
	data []T
}

// NewArena creates an *Arena[T] whose backing slice is preallocated to
// capHint elements. capHint may be zero.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data)) // #nosec G115 -- arena length fits uint32
}

// Get returns the element at a 1-based index, or nil for index 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the backing storage for iteration. Callers must not mutate.
func (a *Arena[T]) Slice() []T {
	return a.data
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) // #nosec G115 -- arena length fits uint32
}
