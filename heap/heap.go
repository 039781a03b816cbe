package heap

import (
	"math"

	"github.com/vkngwrapper/array/block"
)

//go:generate mockgen -source heap.go -destination ./mocks/heap.go

// Heap is the allocator contract consumed by storage objects. Every call receives a handle of type
// A which identifies the allocator's context: a pointer to an arena, a tracker, or an empty marker
// for allocators with no state.
type Heap[A any] interface {
	// Allocate returns a block of at least size bytes whose address is a multiple of alignment.
	// alignment must be a power of two. Allocating zero bytes returns the empty block. Any failure
	// is reported with an error wrapping memutils.ErrAllocationFailed.
	Allocate(handle A, size int, alignment uint) (block.MemoryBlock, error)
	// Deallocate releases a block previously returned by Allocate with the same handle. It cannot
	// fail: passing a block that did not come from this heap and handle is a programming error,
	// and implementations that can detect it will panic.
	Deallocate(handle A, memory block.MemoryBlock)
	// MaxSize is an upper bound on the size in bytes of any single block that can be allocated
	// through the handle
	MaxSize(handle A) int
}

// NoHandle is the handle type for heaps that carry no state of their own
type NoHandle struct{}

// DefaultMaxSize can be embedded in a Heap implementation that has no natural upper bound
// on its block size.
type DefaultMaxSize[A any] struct{}

func (DefaultMaxSize[A]) MaxSize(A) int {
	return math.MaxInt
}

// MaxSize forwards to the MaxSize method of the zero value of H, without requiring a live heap
func MaxSize[A any, H Heap[A]](handle A) int {
	var h H
	return h.MaxSize(handle)
}
