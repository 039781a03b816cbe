package heap

import (
	"math"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/memutils"
)

const (
	// maxSystemAllocation is the largest block System will attempt to allocate
	maxSystemAllocation int = math.MaxInt >> 1
)

// System allocates blocks from memory managed by the Go runtime. Each block is padded so its
// start address can be aligned. Deallocate is a no-op: a block's memory is reclaimed by the
// garbage collector once nothing refers to it.
type System struct{}

var _ Heap[NoHandle] = System{}

func (System) Allocate(_ NoHandle, size int, alignment uint) (block.MemoryBlock, error) {
	err := memutils.CheckPow2(alignment, "alignment")
	if err != nil {
		return block.MemoryBlock{}, cerrors.Mark(err, memutils.ErrAllocationFailed)
	}

	if size < 0 {
		return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed, "negative size %d", size)
	}
	if size == 0 {
		return block.MemoryBlock{}, nil
	}
	if size > maxSystemAllocation-int(alignment) {
		return block.MemoryBlock{}, cerrors.Wrapf(memutils.ErrAllocationFailed,
			"requested %d bytes but the system heap allows at most %d", size, maxSystemAllocation-int(alignment))
	}

	buffer := make([]byte, size+int(alignment)-1)
	start := unsafe.Pointer(unsafe.SliceData(buffer))
	shift := memutils.AlignPointerUp(uintptr(start), alignment) - uintptr(start)

	return block.NewMemoryBlock(unsafe.Add(start, shift), size), nil
}

func (System) Deallocate(_ NoHandle, _ block.MemoryBlock) {}

func (System) MaxSize(NoHandle) int {
	return maxSystemAllocation
}
