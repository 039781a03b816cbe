package block

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
)

// MemoryBlock is a raw, untyped range of bytes. It carries no ownership: whoever received it from
// a heap is responsible for returning it to that same heap. The zero value is the canonical empty
// block, and a block is empty exactly when its Memory is nil.
type MemoryBlock struct {
	// Memory is the address of the first byte of the block, or nil for the empty block
	Memory unsafe.Pointer
	// Size is the number of bytes in the block
	Size int
}

// NewMemoryBlock builds a MemoryBlock over size bytes at memory. A zero size produces the empty block
// regardless of memory.
func NewMemoryBlock(memory unsafe.Pointer, size int) MemoryBlock {
	if size == 0 {
		return MemoryBlock{}
	}

	return MemoryBlock{Memory: memory, Size: size}
}

// Empty returns true if this is the empty block
func (b MemoryBlock) Empty() bool {
	return b.Size == 0
}

// Begin returns the address of the first byte of the block
func (b MemoryBlock) Begin() uintptr {
	return uintptr(b.Memory)
}

// End returns the address one past the final byte of the block
func (b MemoryBlock) End() uintptr {
	return uintptr(b.Memory) + uintptr(b.Size)
}

// Bytes exposes the block as a byte slice. The slice aliases the block and must not outlive it.
func (b MemoryBlock) Bytes() []byte {
	if b.Empty() {
		return nil
	}

	return unsafe.Slice((*byte)(b.Memory), b.Size)
}

// Contains returns true if the size bytes starting at address lie entirely within the block
func (b MemoryBlock) Contains(address uintptr, size int) bool {
	if size == 0 {
		return address >= b.Begin() && address <= b.End()
	}

	return address >= b.Begin() && address+uintptr(size) <= b.End()
}

// Validate verifies the empty-block invariant
func (b MemoryBlock) Validate() error {
	if b.Size < 0 {
		return cerrors.Errorf("memory block has a negative size %d", b.Size)
	}
	if b.Size == 0 && b.Memory != nil {
		return cerrors.New("memory block has no size but points at memory")
	}
	if b.Size > 0 && b.Memory == nil {
		return cerrors.Errorf("memory block has a size of %d but no memory", b.Size)
	}

	return nil
}
