package arena

import (
	"fmt"
	"unsafe"
)

// Handle is a stable reference to a value of type T stored in a Slab.  The
// zero handle refers to nothing.
type Handle[T any] struct {
	// The index of the value plus one so that the zero handle is invalid.
	n int32
}

// Valid returns whether the handle refers to a value.
func (h Handle[T]) Valid() bool {
	return h.n > 0
}

// Index returns the position of the handle's value in its slab.
func (h Handle[T]) Index() int {
	return int(h.n) - 1
}

// Slab is a typed store of values of type T whose space is charged to an
// arena.  Every allocation advances the arena's offset by the size of T.
// Values are never freed individually: their storage is dropped when the
// arena is freed.
type Slab[T any] struct {
	arena *Arena
	items []T
}

// NewSlab creates a new slab bound to the arena a.
func NewSlab[T any](a *Arena) *Slab[T] {
	s := &Slab[T]{arena: a}
	a.releasers = append(a.releasers, func() { s.items = nil })
	return s
}

// Alloc places v in the slab and returns a handle to it.  This fails if the
// arena is not initialized, has been freed, or does not have enough space
// remaining to hold a T.
func (s *Slab[T]) Alloc(v T) (Handle[T], error) {
	if err := s.arena.reserve(unsafe.Sizeof(v)); err != nil {
		return Handle[T]{}, err
	}

	s.items = append(s.items, v)
	return Handle[T]{n: int32(len(s.items))}, nil
}

// At returns a pointer to the value referred to by h.  The pointer is only
// valid until the next allocation from the slab.  Resolving a handle after the
// arena is freed or resolving an invalid handle is a programming error and
// causes a panic.
func (s *Slab[T]) At(h Handle[T]) *T {
	return s.Get(h.Index())
}

// Get returns a pointer to the value at index i of the slab.  It follows the
// same rules as At.
func (s *Slab[T]) Get(i int) *T {
	if s.arena.Freed() {
		panic(ErrFreed)
	}

	if i < 0 || i >= len(s.items) {
		panic(fmt.Sprintf("arena: slab index %d out of range [0, %d)", i, len(s.items)))
	}

	return &s.items[i]
}

// Len returns the number of values allocated in the slab.
func (s *Slab[T]) Len() int {
	return len(s.items)
}
