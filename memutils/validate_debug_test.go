//go:build debug_mem_utils

package memutils_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/array/memutils"
)

func TestDebugCheckPow2(t *testing.T) {
	require.NotPanics(t, func() { memutils.DebugCheckPow2(uint(8), "alignment") })
	require.Panics(t, func() { memutils.DebugCheckPow2(uint(12), "alignment") })
}
