package block_test

import (
	"testing"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/heap"
	"github.com/vkngwrapper/array/memutils"
)

type point struct {
	X, Y int64
}

type withString struct {
	ID   int
	Name string
}

func TestMemoryBlock(t *testing.T) {
	var empty block.MemoryBlock
	require.True(t, empty.Empty())
	require.Nil(t, empty.Bytes())
	require.NoError(t, empty.Validate())

	require.Equal(t, block.MemoryBlock{}, block.NewMemoryBlock(unsafe.Pointer(&point{}), 0))

	buffer := make([]byte, 32)
	memory := block.NewMemoryBlock(unsafe.Pointer(&buffer[0]), len(buffer))
	require.False(t, memory.Empty())
	require.NoError(t, memory.Validate())
	require.Len(t, memory.Bytes(), 32)
	require.Equal(t, memory.Begin()+32, memory.End())
	require.True(t, memory.Contains(memory.Begin()+8, 24))
	require.False(t, memory.Contains(memory.Begin()+8, 25))

	require.Error(t, block.MemoryBlock{Size: 4}.Validate())
	require.Error(t, block.MemoryBlock{Memory: unsafe.Pointer(&buffer[0])}.Validate())
}

func TestViewOfBlock(t *testing.T) {
	memory, err := heap.System{}.Allocate(heap.NoHandle{}, 64, 8)
	require.NoError(t, err)

	view := block.ViewOf[point](memory, 3)
	require.NoError(t, view.Validate())
	require.Equal(t, 3, view.Len())
	require.Equal(t, 16, view.ElementSize())
	require.Equal(t, 48, view.ByteSize())
	require.Equal(t, uint(8), view.Alignment())
	require.Equal(t, memory.Begin(), view.Begin())
	require.Equal(t, memory.Begin()+48, view.End())
	require.True(t, view.Within(memory))
	require.False(t, block.ViewOf[point](memory, 5).Within(memory))

	elements := view.Slice()
	elements[2] = point{X: 5, Y: 6}
	require.Equal(t, point{X: 5, Y: 6}, block.ViewAt(view.Base(), 3).Slice()[2])

	require.Nil(t, block.EmptyView[point]().Slice())
	require.Equal(t, block.EmptyView[point](), block.ViewOf[point](memory, 0))
}

func TestViewRejectsPointers(t *testing.T) {
	require.True(t, cerrors.Is(block.EmptyView[withString]().Validate(), memutils.ErrUnsupportedElement))
	require.True(t, cerrors.Is(block.EmptyView[*point]().Validate(), memutils.ErrUnsupportedElement))
	require.True(t, cerrors.Is(block.EmptyView[[]int]().Validate(), memutils.ErrUnsupportedElement))
	require.True(t, cerrors.Is(block.EmptyView[any]().Validate(), memutils.ErrUnsupportedElement))

	require.NoError(t, block.EmptyView[[4]point]().Validate())
	require.NoError(t, block.EmptyView[struct{}]().Validate())
	require.NoError(t, block.CheckElement[complex128]())
}

func TestViewMalformed(t *testing.T) {
	require.Error(t, block.ViewAt[point](nil, -1).Validate())
	require.Error(t, block.ViewAt[point](nil, 2).Validate())

	// Zero-sized elements never need an address
	require.NoError(t, block.ViewAt[struct{}](nil, 2).Validate())
	require.Len(t, block.ViewAt[struct{}](nil, 2).Slice(), 2)
}
