package heap

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/memutils"
)

// Tracker is the handle used by Tracked heaps. It wraps the handle of the inner heap and records
// every block that passes through it, which makes double frees and frees of foreign blocks
// detectable. It can also be told to fail a specific allocation.
type Tracker[A any] struct {
	// Handle is passed through to the inner heap
	Handle A

	attempts      int
	allocations   int
	deallocations int
	failOn        int
	maxSize       int

	live  *swiss.Map[uintptr, int]
	stats memutils.Statistics
}

// NewTracker creates a Tracker around the inner heap's handle
func NewTracker[A any](handle A) *Tracker[A] {
	return &Tracker[A]{
		Handle: handle,
		live:   swiss.NewMap[uintptr, int](16),
	}
}

// FailOn causes the n-th allocation attempt made through this tracker (counting from 1, and
// including attempts that have already happened) to fail with memutils.ErrAllocationFailed.
// Passing 0 disables failure injection.
func (t *Tracker[A]) FailOn(n int) {
	t.failOn = n
}

// SetMaxSize lowers the maximum block size reported through this tracker. Passing 0 reports the
// inner heap's maximum.
func (t *Tracker[A]) SetMaxSize(maxSize int) {
	t.maxSize = maxSize
}

// Attempts returns the number of times Allocate has been called
func (t *Tracker[A]) Attempts() int { return t.attempts }

// Allocations returns the number of successful non-empty allocations
func (t *Tracker[A]) Allocations() int { return t.allocations }

// Deallocations returns the number of non-empty blocks that have been freed
func (t *Tracker[A]) Deallocations() int { return t.deallocations }

// LiveBlocks returns the number of blocks allocated and not yet freed
func (t *Tracker[A]) LiveBlocks() int { return t.live.Count() }

// LiveBytes returns the total size of the blocks allocated and not yet freed
func (t *Tracker[A]) LiveBytes() int { return t.stats.AllocationBytes }

// IsLive returns true if the provided block was allocated through this tracker and not yet freed
func (t *Tracker[A]) IsLive(memory block.MemoryBlock) bool {
	size, ok := t.live.Get(memory.Begin())
	return ok && size == memory.Size
}

// Statistics returns the live allocation totals
func (t *Tracker[A]) Statistics() memutils.Statistics {
	return t.stats
}

// AddStatistics sums the live allocation totals into stats
func (t *Tracker[A]) AddStatistics(stats *memutils.Statistics) {
	stats.AddStatistics(&t.stats)
}

// PrintJson writes a json object describing the traffic seen by this tracker
func (t *Tracker[A]) PrintJson(writer *jwriter.Writer) {
	json := writer.Object()
	json.Name("Attempts").Int(t.attempts)
	json.Name("Allocations").Int(t.allocations)
	json.Name("Deallocations").Int(t.deallocations)
	json.Name("LiveBlocks").Int(t.live.Count())
	json.Name("LiveBytes").Int(t.stats.AllocationBytes)
	json.End()
}

// Tracked is a Heap that forwards to Inner while recording every block in a *Tracker
type Tracked[A any, H Heap[A]] struct {
	Inner H
}

func (h Tracked[A, H]) Allocate(tracker *Tracker[A], size int, alignment uint) (block.MemoryBlock, error) {
	tracker.attempts++
	if tracker.attempts == tracker.failOn {
		return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed, "injected failure on allocation %d", tracker.attempts)
	}

	memory, err := h.Inner.Allocate(tracker.Handle, size, alignment)
	if err != nil {
		return block.MemoryBlock{}, err
	}
	if memory.Empty() {
		return memory, nil
	}

	tracker.allocations++
	tracker.live.Put(memory.Begin(), memory.Size)
	tracker.stats.AddAllocation(memory.Size)
	return memory, nil
}

func (h Tracked[A, H]) Deallocate(tracker *Tracker[A], memory block.MemoryBlock) {
	if memory.Empty() {
		h.Inner.Deallocate(tracker.Handle, memory)
		return
	}

	size, ok := tracker.live.Get(memory.Begin())
	if !ok {
		panic(fmt.Sprintf("attempting to free a block at %#x that is not live: double free or foreign block", memory.Begin()))
	}
	if size != memory.Size {
		panic(fmt.Sprintf("attempting to free a block of %d bytes that was allocated with %d bytes", memory.Size, size))
	}

	tracker.live.Delete(memory.Begin())
	tracker.deallocations++
	tracker.stats.RemoveAllocation(memory.Size)
	h.Inner.Deallocate(tracker.Handle, memory)
}

func (h Tracked[A, H]) MaxSize(tracker *Tracker[A]) int {
	innerMax := h.Inner.MaxSize(tracker.Handle)
	if tracker.maxSize > 0 && tracker.maxSize < innerMax {
		return tracker.maxSize
	}
	return innerMax
}

var _ Heap[*Tracker[NoHandle]] = Tracked[NoHandle, System]{}
