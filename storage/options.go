package storage

import (
	"github.com/vkngwrapper/array/block"
	"golang.org/x/exp/slog"
)

// CreateOptions contains optional settings when creating a BlockStorage. It is valid to leave
// every field blank.
type CreateOptions[H any, G any] struct {
	// Heap is the heap value blocks are allocated through. Stateless heaps can leave this as
	// the zero value.
	Heap H
	// Growth is the growth policy value used to size blocks. Stateless policies can leave this
	// as the zero value.
	Growth G
	// Transfer chooses how live elements are relocated between blocks. The zero value is
	// block.TransferDestructiveMove.
	Transfer block.TransferMode
	// Logger receives debug output whenever the storage changes blocks. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}
