// Package arena provides the bump allocator that owns the syntax tree of a
// single compilation.  An arena hands out space from a fixed byte budget in
// increasing offsets and is only ever freed as a whole.
package arena

import (
	"errors"
	"fmt"
)

// Errors returned by arena allocation.
var (
	ErrNotInitialized     = errors.New("arena used before initialization")
	ErrAlreadyInitialized = errors.New("arena already initialized")
	ErrOutOfMemory        = errors.New("arena out of memory")
	ErrFreed              = errors.New("arena used after free")
)

// Enumeration of arena states.
const (
	stateNew = iota
	stateReady
	stateFreed
)

// Arena is a bump allocator over a fixed-size budget of bytes.  Values are
// stored in typed slabs bound to the arena (see Slab) and charged against the
// budget by their size.  The budget bounds the bytes charged, not the memory
// the slabs actually hold.  The arena is not safe for concurrent use: it is
// owned by exactly one compilation.
type Arena struct {
	// The total size of the arena in bytes.
	size uintptr

	// The current bump offset: the number of bytes handed out so far.
	offset uintptr

	// The lifecycle state of the arena.  This must be one of the enumerated
	// arena states.
	state int

	// releasers are called when the arena is freed to drop the storage of
	// every slab bound to it.
	releasers []func()
}

// New creates a new arena with a budget of size bytes.  The arena must be
// initialized with Init before anything can be allocated from it.
func New(size int) *Arena {
	if size < 0 {
		size = 0
	}

	return &Arena{size: uintptr(size)}
}

// Init prepares the arena for allocation.  It may only be called once: any
// later call returns ErrAlreadyInitialized and leaves the arena untouched.
func (a *Arena) Init() error {
	switch a.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateFreed:
		return ErrFreed
	}

	a.state = stateReady
	a.offset = 0
	return nil
}

// reserve advances the bump offset by n bytes.  If the advanced offset would
// exceed the arena's size, the offset is left unchanged and an error wrapping
// ErrOutOfMemory is returned.
func (a *Arena) reserve(n uintptr) error {
	switch a.state {
	case stateNew:
		return ErrNotInitialized
	case stateFreed:
		return ErrFreed
	}

	if n > a.size-a.offset {
		return fmt.Errorf("%w: requested %d bytes with %d of %d remaining", ErrOutOfMemory, n, a.size-a.offset, a.size)
	}

	a.offset += n
	return nil
}

// Free releases all the memory held by the arena at once.  Nothing allocated
// from the arena may be accessed after it is freed.  Freeing an arena more than
// once does nothing.
func (a *Arena) Free() {
	if a.state == stateFreed {
		return
	}

	for _, release := range a.releasers {
		release()
	}

	a.releasers = nil
	a.state = stateFreed
}

// Initialized returns whether the arena is ready for allocation.
func (a *Arena) Initialized() bool {
	return a.state == stateReady
}

// Freed returns whether the arena has been freed.
func (a *Arena) Freed() bool {
	return a.state == stateFreed
}

// Cap returns the size of the arena in bytes.
func (a *Arena) Cap() int {
	return int(a.size)
}

// Used returns the number of bytes allocated from the arena.
func (a *Arena) Used() int {
	return int(a.offset)
}

// Remaining returns the number of bytes still available in the arena.
func (a *Arena) Remaining() int {
	return int(a.size - a.offset)
}
