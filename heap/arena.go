package heap

import (
	"context"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/memutils"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

const (
	// maxArenaAlignment is the alignment of an arena's region, and so the largest alignment an
	// arena can satisfy
	maxArenaAlignment uint = 4096
)

// ArenaCreateOptions contains the settings used to create an Arena
type ArenaCreateOptions struct {
	// Size is the number of bytes in the arena's region. It is also the arena's MaxSize.
	Size int
}

type arenaAllocation struct {
	offset   int
	size     int
	reserved int
}

type freeRange struct {
	offset int
	size   int
}

// Arena is a single fixed region of memory that hands out blocks with a first-fit search over
// its free ranges. Freed ranges are merged with their neighbors. Pass a *Arena as the handle
// to ArenaHeap.
//
// An Arena is not synchronized.
type Arena struct {
	logger *slog.Logger
	region []byte
	memory unsafe.Pointer
	size   int

	// free is sorted by offset and never contains two touching ranges
	free []freeRange
	live *swiss.Map[int, arenaAllocation]
}

// NewArena creates an arena over a freshly allocated region of options.Size bytes
func NewArena(logger *slog.Logger, options ArenaCreateOptions) (*Arena, error) {
	if options.Size <= 0 {
		return nil, cerrors.Errorf("arena size must be positive, but was %d", options.Size)
	}

	if logger == nil {
		logger = slog.Default()
	}

	region := make([]byte, options.Size+int(maxArenaAlignment)-1)
	start := unsafe.Pointer(unsafe.SliceData(region))
	shift := memutils.AlignPointerUp(uintptr(start), maxArenaAlignment) - uintptr(start)

	arena := &Arena{
		logger: logger,
		region: region,
		memory: unsafe.Add(start, shift),
		size:   options.Size,
		free:   []freeRange{{offset: 0, size: options.Size}},
		live:   swiss.NewMap[int, arenaAllocation](42),
	}

	logger.Debug("Arena created", slog.Int("size", options.Size))
	return arena, nil
}

// Size returns the size in bytes of the arena's region
func (a *Arena) Size() int { return a.size }

// AllocationCount returns the number of live blocks in the arena
func (a *Arena) AllocationCount() int {
	if a.live == nil {
		return 0
	}
	return a.live.Count()
}

// SumFreeSize returns the number of bytes not currently reserved by a live block
func (a *Arena) SumFreeSize() int {
	var sum int
	for _, r := range a.free {
		sum += r.size
	}
	return sum
}

// IsEmpty returns true if the arena has no live blocks
func (a *Arena) IsEmpty() bool {
	return a.AllocationCount() == 0
}

// allocationEnd returns the end of an allocation of size bytes at offset, including the guard margin
func allocationEnd(offset, size int) int {
	if memutils.DebugMargin == 0 {
		return offset + size
	}

	return memutils.AlignUp(offset+size, 4) + memutils.DebugMargin
}

func (a *Arena) allocate(size int, alignment uint) (block.MemoryBlock, error) {
	err := memutils.CheckPow2(alignment, "alignment")
	if err != nil {
		return block.MemoryBlock{}, cerrors.Mark(err, memutils.ErrAllocationFailed)
	}

	if a.memory == nil {
		return block.MemoryBlock{}, cerrors.Wrap(memutils.ErrAllocationFailed, "arena has been destroyed")
	}
	if alignment > maxArenaAlignment {
		return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed,
			"alignment %d is larger than the arena alignment %d", alignment, maxArenaAlignment)
	}
	if size < 0 {
		return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed, "negative size %d", size)
	}
	if size == 0 {
		return block.MemoryBlock{}, nil
	}
	if size > a.size {
		return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed,
			"requested %d bytes from an arena of %d bytes", size, a.size)
	}

	for i, r := range a.free {
		offset := memutils.AlignUp(r.offset, alignment)
		end := allocationEnd(offset, size)
		if end > r.offset+r.size {
			continue
		}

		var remainder []freeRange
		if offset > r.offset {
			remainder = append(remainder, freeRange{offset: r.offset, size: offset - r.offset})
		}
		if end < r.offset+r.size {
			remainder = append(remainder, freeRange{offset: end, size: r.offset + r.size - end})
		}

		a.free = slices.Delete(a.free, i, i+1)
		a.free = slices.Insert(a.free, i, remainder...)
		a.live.Put(offset, arenaAllocation{offset: offset, size: size, reserved: end - offset})

		if memutils.DebugMargin > 0 {
			memutils.WriteMagicValue(a.memory, memutils.AlignUp(offset+size, 4))
		}

		memutils.DebugValidate(a)
		return block.NewMemoryBlock(unsafe.Add(a.memory, offset), size), nil
	}

	return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed,
		"no free range in the arena can hold %d bytes aligned to %d (%d bytes free)", size, alignment, a.SumFreeSize())
}

func (a *Arena) deallocate(memory block.MemoryBlock) {
	if memory.Empty() {
		return
	}

	if a.memory == nil {
		panic("attempting to free a block into an arena that has been destroyed")
	}

	arenaBlock := block.NewMemoryBlock(a.memory, a.size)
	if !arenaBlock.Contains(memory.Begin(), memory.Size) {
		panic("attempting to free a block that does not lie within this arena")
	}

	offset := int(memory.Begin() - arenaBlock.Begin())
	allocation, ok := a.live.Get(offset)
	if !ok {
		panic("attempting to free a block that is not a live allocation in this arena")
	}
	if allocation.size != memory.Size {
		panic("attempting to free a block with a different size than was allocated")
	}

	if memutils.DebugMargin > 0 && !memutils.ValidateMagicValue(a.memory, memutils.AlignUp(offset+allocation.size, 4)) {
		panic("MEMORY CORRUPTION DETECTED AFTER ARENA ALLOCATION")
	}

	a.live.Delete(offset)
	a.insertFree(freeRange{offset: allocation.offset, size: allocation.reserved})

	memutils.DebugValidate(a)
}

func (a *Arena) insertFree(r freeRange) {
	index, _ := slices.BinarySearchFunc(a.free, r.offset, func(existing freeRange, offset int) int {
		return existing.offset - offset
	})

	if index < len(a.free) && r.offset+r.size == a.free[index].offset {
		r.size += a.free[index].size
		a.free = slices.Delete(a.free, index, index+1)
	}

	if index > 0 && a.free[index-1].offset+a.free[index-1].size == r.offset {
		a.free[index-1].size += r.size
		return
	}

	a.free = slices.Insert(a.free, index, r)
}

func (a *Arena) sortedAllocations() []arenaAllocation {
	allocations := make([]arenaAllocation, 0, a.AllocationCount())
	if a.live != nil {
		a.live.Iter(func(_ int, allocation arenaAllocation) bool {
			allocations = append(allocations, allocation)
			return false
		})
	}

	slices.SortFunc(allocations, func(left, right arenaAllocation) int {
		return left.offset - right.offset
	})
	return allocations
}

// Validate performs internal consistency checks on the arena: the live allocations and free
// ranges must exactly tile the region without overlapping.
func (a *Arena) Validate() error {
	if a.memory == nil {
		if a.AllocationCount() > 0 || len(a.free) > 0 {
			return errors.New("destroyed arena still tracks memory")
		}
		return nil
	}

	for i, r := range a.free {
		if r.size <= 0 {
			return cerrors.Errorf("free range at offset %d has invalid size %d", r.offset, r.size)
		}
		if i > 0 && a.free[i-1].offset+a.free[i-1].size >= r.offset {
			return cerrors.Errorf("free range at offset %d touches or overlaps the previous free range", r.offset)
		}
	}

	allocations := a.sortedAllocations()
	freeIndex, allocIndex, offset := 0, 0, 0
	for offset < a.size {
		switch {
		case freeIndex < len(a.free) && a.free[freeIndex].offset == offset:
			offset += a.free[freeIndex].size
			freeIndex++
		case allocIndex < len(allocations) && allocations[allocIndex].offset == offset:
			if allocations[allocIndex].reserved < allocations[allocIndex].size {
				return cerrors.Errorf("allocation at offset %d reserves less than its size", offset)
			}
			offset += allocations[allocIndex].reserved
			allocIndex++
		default:
			return cerrors.Errorf("no free range or allocation begins at offset %d", offset)
		}
	}

	if offset != a.size {
		return cerrors.Errorf("regions end at offset %d, but the arena is %d bytes", offset, a.size)
	}
	if freeIndex != len(a.free) || allocIndex != len(allocations) {
		return errors.New("arena has regions that lie outside of its memory")
	}

	return nil
}

// DetailedStatistics returns this arena's allocation and free range statistics
func (a *Arena) DetailedStatistics() memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	stats.BlockCount = 1
	stats.BlockBytes = a.size

	for _, allocation := range a.sortedAllocations() {
		stats.AddAllocation(allocation.size)
	}

	for _, r := range a.free {
		stats.AddUnusedRange(r.size)
	}

	return stats
}

// AddStatistics sums this arena's allocation statistics into stats
func (a *Arena) AddStatistics(stats *memutils.Statistics) {
	own := a.DetailedStatistics()
	stats.AddStatistics(&own.Statistics)
}

// AddDetailedStatistics sums this arena's allocation and free range statistics into stats
func (a *Arena) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	own := a.DetailedStatistics()
	stats.AddDetailedStatistics(&own)
}

// BlockJsonData populates a json object with information about this arena
func (a *Arena) BlockJsonData(json jwriter.ObjectState) {
	json.Name("TotalBytes").Int(a.size)
	json.Name("UnusedBytes").Int(a.SumFreeSize())
	json.Name("Allocations").Int(a.AllocationCount())
	json.Name("UnusedRanges").Int(len(a.free))
}

// Destroy releases the arena's region. If any blocks are still live, each of them is logged,
// an error is returned, and the arena is left untouched.
func (a *Arena) Destroy() error {
	if !a.IsEmpty() {
		for _, allocation := range a.sortedAllocations() {
			a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed arena allocation",
				slog.Int("offset", allocation.offset),
				slog.Int("size", allocation.size),
			)
		}

		return errors.New("some allocations were not freed before the destruction of this arena")
	}

	a.region = nil
	a.memory = nil
	a.free = nil
	return nil
}

// ArenaHeap is the Heap implementation for *Arena handles
type ArenaHeap struct{}

var _ Heap[*Arena] = ArenaHeap{}

func (ArenaHeap) Allocate(arena *Arena, size int, alignment uint) (block.MemoryBlock, error) {
	return arena.allocate(size, alignment)
}

func (ArenaHeap) Deallocate(arena *Arena, memory block.MemoryBlock) {
	arena.deallocate(memory)
}

func (ArenaHeap) MaxSize(arena *Arena) int {
	return arena.size
}
