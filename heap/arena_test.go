package heap_test

import (
	"bytes"
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/heap"
	"github.com/vkngwrapper/array/memutils"
	"golang.org/x/exp/slog"
)

func newArena(t *testing.T, size int) *heap.Arena {
	arena, err := heap.NewArena(nil, heap.ArenaCreateOptions{Size: size})
	require.NoError(t, err)
	return arena
}

func TestArenaAllocAndFree(t *testing.T) {
	arena := newArena(t, 1024)
	arenaHeap := heap.ArenaHeap{}
	require.Equal(t, 1024, arenaHeap.MaxSize(arena))

	first, err := arenaHeap.Allocate(arena, 100, 8)
	require.NoError(t, err)
	require.Equal(t, 100, first.Size)

	second, err := arenaHeap.Allocate(arena, 50, 64)
	require.NoError(t, err)
	require.Equal(t, uintptr(128), second.Begin()-first.Begin())
	require.True(t, memutils.IsAligned(second.Begin(), 64))
	require.NoError(t, arena.Validate())

	var stats memutils.DetailedStatistics
	stats.Clear()
	arena.AddDetailedStatistics(&stats)
	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      1,
			BlockBytes:      1024,
			AllocationCount: 2,
			AllocationBytes: 150,
		},
		UnusedRangeCount:   2,
		AllocationSizeMin:  50,
		AllocationSizeMax:  100,
		UnusedRangeSizeMin: 28,
		UnusedRangeSizeMax: 846,
	}, stats)

	arenaHeap.Deallocate(arena, first)
	require.NoError(t, arena.Validate())
	require.Equal(t, 1, arena.AllocationCount())
	require.Equal(t, 974, arena.SumFreeSize())

	arenaHeap.Deallocate(arena, second)
	require.NoError(t, arena.Validate())
	require.True(t, arena.IsEmpty())

	var simple memutils.Statistics
	arena.AddStatistics(&simple)
	require.Equal(t, memutils.Statistics{BlockCount: 1, BlockBytes: 1024}, simple)

	stats.Clear()
	arena.AddDetailedStatistics(&stats)
	require.Equal(t, 1, stats.UnusedRangeCount)
	require.Equal(t, 1024, stats.UnusedRangeSizeMax)

	require.NoError(t, arena.Destroy())
}

func TestStatisticsAggregate(t *testing.T) {
	arenaHeap := heap.ArenaHeap{}
	large := newArena(t, 1024)
	small := newArena(t, 512)

	first, err := arenaHeap.Allocate(large, 100, 8)
	require.NoError(t, err)
	second, err := arenaHeap.Allocate(small, 32, 8)
	require.NoError(t, err)
	third, err := arenaHeap.Allocate(small, 64, 8)
	require.NoError(t, err)

	var detailed memutils.DetailedStatistics
	detailed.Clear()
	large.AddDetailedStatistics(&detailed)
	small.AddDetailedStatistics(&detailed)
	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      2,
			BlockBytes:      1536,
			AllocationCount: 3,
			AllocationBytes: 196,
		},
		UnusedRangeCount:   2,
		AllocationSizeMin:  32,
		AllocationSizeMax:  100,
		UnusedRangeSizeMin: 416,
		UnusedRangeSizeMax: 924,
	}, detailed)
	require.Equal(t, 2, small.DetailedStatistics().AllocationCount)

	tracker := heap.NewTracker(heap.NoHandle{})
	tracked := heap.Tracked[heap.NoHandle, heap.System]{}
	_, err = tracked.Allocate(tracker, 64, 8)
	require.NoError(t, err)
	_, err = tracked.Allocate(tracker, 16, 8)
	require.NoError(t, err)

	var total memutils.Statistics
	large.AddStatistics(&total)
	small.AddStatistics(&total)
	tracker.AddStatistics(&total)
	require.Equal(t, memutils.Statistics{
		BlockCount:      2,
		BlockBytes:      1536,
		AllocationCount: 5,
		AllocationBytes: 276,
	}, total)

	arenaHeap.Deallocate(large, first)
	arenaHeap.Deallocate(small, second)
	arenaHeap.Deallocate(small, third)
	require.NoError(t, large.Destroy())
	require.NoError(t, small.Destroy())
}

func TestArenaFragmentation(t *testing.T) {
	arena := newArena(t, 1024)
	arenaHeap := heap.ArenaHeap{}

	var blocks []block.MemoryBlock
	for i := 0; i < 3; i++ {
		memory, err := arenaHeap.Allocate(arena, 300, 4)
		require.NoError(t, err)
		blocks = append(blocks, memory)
	}

	arenaHeap.Deallocate(arena, blocks[1])
	require.NoError(t, arena.Validate())
	require.Equal(t, 424, arena.SumFreeSize())

	_, err := arenaHeap.Allocate(arena, 400, 4)
	require.True(t, cerrors.Is(err, memutils.ErrAllocationFailed))

	middle, err := arenaHeap.Allocate(arena, 300, 4)
	require.NoError(t, err)
	require.Equal(t, blocks[1], middle)

	_, err = arenaHeap.Allocate(arena, 2048, 4)
	require.True(t, cerrors.Is(err, memutils.ErrAllocationFailed))

	_, err = arenaHeap.Allocate(arena, 8, 8192)
	require.True(t, cerrors.Is(err, memutils.ErrAllocationFailed))

	empty, err := arenaHeap.Allocate(arena, 0, 4)
	require.NoError(t, err)
	require.True(t, empty.Empty())
	arenaHeap.Deallocate(arena, empty)

	for _, memory := range []block.MemoryBlock{blocks[0], middle, blocks[2]} {
		arenaHeap.Deallocate(arena, memory)
	}
	require.NoError(t, arena.Validate())
	require.Equal(t, 1024, arena.SumFreeSize())
}

func TestArenaMisuse(t *testing.T) {
	arena := newArena(t, 256)
	arenaHeap := heap.ArenaHeap{}

	memory, err := arenaHeap.Allocate(arena, 64, 8)
	require.NoError(t, err)

	foreign, err := heap.System{}.Allocate(heap.NoHandle{}, 64, 8)
	require.NoError(t, err)

	require.Panics(t, func() { arenaHeap.Deallocate(arena, foreign) })
	require.Panics(t, func() {
		arenaHeap.Deallocate(arena, block.NewMemoryBlock(memory.Memory, 32))
	})

	arenaHeap.Deallocate(arena, memory)
	require.Panics(t, func() { arenaHeap.Deallocate(arena, memory) })
}

func TestArenaDestroyUnreleased(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	arena, err := heap.NewArena(logger, heap.ArenaCreateOptions{Size: 512})
	require.NoError(t, err)

	memory, err := heap.ArenaHeap{}.Allocate(arena, 40, 8)
	require.NoError(t, err)

	err = arena.Destroy()
	require.Error(t, err)
	require.Contains(t, logs.String(), "[UNRELEASED MEMORY]")
	require.Contains(t, logs.String(), "size=40")

	heap.ArenaHeap{}.Deallocate(arena, memory)
	require.NoError(t, arena.Destroy())
	require.NoError(t, arena.Validate())

	_, err = heap.ArenaHeap{}.Allocate(arena, 8, 8)
	require.True(t, cerrors.Is(err, memutils.ErrAllocationFailed))
}

func TestArenaJson(t *testing.T) {
	arena := newArena(t, 1000)
	_, err := heap.ArenaHeap{}.Allocate(arena, 200, 8)
	require.NoError(t, err)

	writer := jwriter.NewWriter()
	json := writer.Object()
	arena.BlockJsonData(json)
	json.End()

	require.NoError(t, writer.Error())
	require.Equal(t, `{"TotalBytes":1000,"UnusedBytes":800,"Allocations":1,"UnusedRanges":1}`, string(writer.Bytes()))
}

func TestNewArenaInvalidSize(t *testing.T) {
	_, err := heap.NewArena(nil, heap.ArenaCreateOptions{})
	require.Error(t, err)
}
