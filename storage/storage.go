package storage

import (
	"context"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/growth"
	"github.com/vkngwrapper/array/heap"
	"github.com/vkngwrapper/array/memutils"
	"golang.org/x/exp/slog"
)

// BlockStorage owns a single memory block allocated from H through the handle A, and resizes it
// according to the growth policy G. It has no small buffer: an empty storage owns no memory.
//
// BlockStorage never tracks which parts of its block hold live elements. Whoever stores elements
// in the block must describe them with a block.Constructed every time the block is resized, and
// must re-derive every element address from Block afterward.
//
// BlockStorage is not synchronized.
type BlockStorage[A any, H heap.Heap[A], G growth.Policy] struct {
	heap     H
	growth   G
	argument A
	block    block.MemoryBlock

	transfer block.TransferMode
	logger   *slog.Logger
}

// New creates an empty BlockStorage that allocates through argument, using zero-valued H and G
func New[A any, H heap.Heap[A], G growth.Policy](argument A) *BlockStorage[A, H, G] {
	return NewWithOptions[A, H, G](argument, CreateOptions[H, G]{})
}

// NewWithOptions creates an empty BlockStorage that allocates through argument. No memory is
// allocated until the first call to Reserve.
func NewWithOptions[A any, H heap.Heap[A], G growth.Policy](argument A, options CreateOptions[H, G]) *BlockStorage[A, H, G] {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BlockStorage[A, H, G]{
		heap:     options.Heap,
		growth:   options.Growth,
		argument: argument,
		transfer: options.Transfer,
		logger:   logger,
	}
}

// Block returns the block currently owned by this storage
func (s *BlockStorage[A, H, G]) Block() block.MemoryBlock {
	return s.block
}

// Argument returns the heap handle this storage allocates through
func (s *BlockStorage[A, H, G]) Argument() A {
	return s.argument
}

// MaxSize returns the largest block that H can allocate through argument
func MaxSize[A any, H heap.Heap[A]](argument A) int {
	return heap.MaxSize[A, H](argument)
}

// Reserve grows the block so it can hold at least minAdditional more bytes beyond what it holds
// now, relocating the elements described by constructed into the new block.
//
// The growth policy is consulted first, so an error wrapping memutils.ErrCapacityExceeded means
// nothing was allocated. An error wrapping memutils.ErrAllocationFailed or
// memutils.ErrElementTransfer means the new block was released again and Block is unchanged.
// After an element transfer failure under block.TransferDestructiveMove, the elements that were
// already moved have been destroyed. See block.DestructiveMove.
func (s *BlockStorage[A, H, G]) Reserve(minAdditional int, constructed block.Constructed) error {
	err := s.checkConstructed(constructed)
	if err != nil {
		return err
	}

	newSize, err := s.growth.GrowthSize(s.block.Size, minAdditional, s.heap.MaxSize(s.argument))
	if err != nil {
		return err
	}

	return s.changeBlock(constructed, newSize)
}

// ShrinkToFit replaces the block with one sized by the growth policy's shrink size for the
// elements described by constructed. If the policy keeps the current size, nothing happens.
// Failures leave the storage as described for Reserve.
func (s *BlockStorage[A, H, G]) ShrinkToFit(constructed block.Constructed) error {
	err := s.checkConstructed(constructed)
	if err != nil {
		return err
	}

	newSize := s.growth.ShrinkSize(s.block.Size, constructed.ByteSize())
	if newSize == s.block.Size {
		return nil
	}

	return s.changeBlock(constructed, newSize)
}

// Swap exchanges the heaps, handles and blocks of lhs and rhs, along with the views describing
// their elements, so that each view still describes the block its storage owns. No memory is
// allocated and no element is moved.
func Swap[T any, A any, H heap.Heap[A], G growth.Policy](
	lhs *BlockStorage[A, H, G], lhsConstructed *block.View[T],
	rhs *BlockStorage[A, H, G], rhsConstructed *block.View[T],
) {
	// The heap value travels with the blocks it allocated
	lhs.heap, rhs.heap = rhs.heap, lhs.heap
	lhs.argument, rhs.argument = rhs.argument, lhs.argument
	lhs.block, rhs.block = rhs.block, lhs.block
	*lhsConstructed, *rhsConstructed = *rhsConstructed, *lhsConstructed
}

// Destroy returns the current block to the heap and leaves the storage empty. The elements in
// the block must already have been destroyed. The storage remains usable afterward.
func (s *BlockStorage[A, H, G]) Destroy() {
	s.deallocateBlock(s.block)
	s.block = block.MemoryBlock{}
}

// Validate checks the storage's block invariant
func (s *BlockStorage[A, H, G]) Validate() error {
	return s.block.Validate()
}

func (s *BlockStorage[A, H, G]) checkConstructed(constructed block.Constructed) error {
	err := constructed.Validate()
	if err != nil {
		return err
	}

	memutils.DebugValidate(constructedBounds{memory: s.block, constructed: constructed})
	return nil
}

func (s *BlockStorage[A, H, G]) allocateBlock(size int, alignment uint) (*pendingBlock[A, H], error) {
	pending := &pendingBlock[A, H]{heap: s.heap, argument: s.argument}
	if size == 0 {
		return pending, nil
	}

	memory, err := s.heap.Allocate(s.argument, size, alignment)
	if err != nil {
		return nil, err
	}

	pending.block = memory
	return pending, nil
}

func (s *BlockStorage[A, H, G]) deallocateBlock(memory block.MemoryBlock) {
	if !memory.Empty() {
		s.heap.Deallocate(s.argument, memory)
	}
}

func (s *BlockStorage[A, H, G]) changeBlock(constructed block.Constructed, newSize int) error {
	pending, err := s.allocateBlock(newSize, constructed.Alignment())
	if err != nil {
		return err
	}
	defer pending.Release()

	err = constructed.Relocate(pending.Block(), s.transfer)
	if err != nil {
		return err
	}

	oldBlock := s.block
	s.block = pending.Commit()
	s.deallocateBlock(oldBlock)

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Block storage changed blocks",
		slog.Int("oldSize", oldBlock.Size),
		slog.Int("newSize", s.block.Size),
		slog.Int("liveBytes", constructed.ByteSize()),
		slog.String("transfer", s.transfer.String()),
	)

	memutils.DebugValidate(s)
	return nil
}

// constructedBounds validates that a caller's view lies inside the storage's block
type constructedBounds struct {
	memory      block.MemoryBlock
	constructed block.Constructed
}

func (b constructedBounds) Validate() error {
	if !b.constructed.Within(b.memory) {
		return cerrors.AssertionFailedf("constructed elements (%d bytes) do not lie within the storage's block of %d bytes",
			b.constructed.ByteSize(), b.memory.Size)
	}
	return nil
}
