package ast

// Arena is an append-only store handing out 1-based integer handles.
// Index 0 is reserved as "no value", which lets parent/child links be plain
// integers with no ownership cycles.
type Arena[T any] struct {
	data []T
}

// NewArena creates an *Arena[T] with capacity capHint; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based handle.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

// Get returns the element for a handle, or nil for handle 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the backing storage. READONLY.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
