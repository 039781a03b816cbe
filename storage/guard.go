package storage

import (
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/heap"
)

// pendingBlock holds a freshly allocated block until it is adopted. Release returns the block to
// its heap unless Commit was called first, so a deferred Release cleans up after any failure
// (or panic) between allocation and adoption.
type pendingBlock[A any, H heap.Heap[A]] struct {
	heap      H
	argument  A
	block     block.MemoryBlock
	committed bool
}

func (p *pendingBlock[A, H]) Block() block.MemoryBlock {
	return p.block
}

func (p *pendingBlock[A, H]) Commit() block.MemoryBlock {
	p.committed = true
	return p.block
}

func (p *pendingBlock[A, H]) Release() {
	if !p.committed && !p.block.Empty() {
		p.heap.Deallocate(p.argument, p.block)
	}

	p.block = block.MemoryBlock{}
}
