package growth

import (
	"math"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/array/memutils"
)

//go:generate mockgen -source policy.go -destination ./mocks/policy.go

// Policy decides how large a block should become when a storage object grows or shrinks. Policies
// hold no state and are normally used through the zero value of a struct type.
type Policy interface {
	// GrowthSize returns the new block size for a block of oldSize bytes that must gain at least
	// minAdditional bytes. The result is at least oldSize+minAdditional and at most maxSize. If
	// no such size exists, an error wrapping memutils.ErrCapacityExceeded is returned.
	GrowthSize(oldSize, minAdditional, maxSize int) (int, error)
	// ShrinkSize returns the new block size for a block of oldSize bytes of which liveSize bytes are
	// in use. The result is never less than liveSize. Returning oldSize leaves the block alone.
	ShrinkSize(oldSize, liveSize int) int
}

// RequiredSize returns oldSize+minAdditional, or an error wrapping memutils.ErrCapacityExceeded if
// that sum overflows or exceeds maxSize
func RequiredSize(oldSize, minAdditional, maxSize int) (int, error) {
	if oldSize < 0 || minAdditional < 0 {
		return 0, cerrors.AssertionFailedf("sizes must not be negative: old size %d, additional %d", oldSize, minAdditional)
	}

	if oldSize > math.MaxInt-minAdditional {
		return 0, cerrors.Wrapf(memutils.ErrCapacityExceeded, "growing %d bytes by %d bytes overflows", oldSize, minAdditional)
	}

	required := oldSize + minAdditional
	if required > maxSize {
		return 0, cerrors.Wrapf(memutils.ErrCapacityExceeded, "%d bytes are required, but blocks may be at most %d bytes", required, maxSize)
	}

	return required, nil
}

// factorGrowth grows oldSize by numerator/denominator, but never below the required size and
// never above maxSize
func factorGrowth(oldSize, minAdditional, maxSize, numerator, denominator int) (int, error) {
	required, err := RequiredSize(oldSize, minAdditional, maxSize)
	if err != nil {
		return 0, err
	}

	grown := maxSize
	if oldSize <= math.MaxInt/numerator {
		grown = oldSize * numerator / denominator
	}

	return min(max(grown, required), maxSize), nil
}

// Exact grows blocks by exactly the amount requested and shrinks them to a tight fit
type Exact struct{}

var _ Policy = Exact{}

func (Exact) GrowthSize(oldSize, minAdditional, maxSize int) (int, error) {
	return RequiredSize(oldSize, minAdditional, maxSize)
}

func (Exact) ShrinkSize(_, liveSize int) int {
	return liveSize
}

// Doubling at least doubles the size of a block each time it grows, and shrinks blocks to a tight fit
type Doubling struct{}

var _ Policy = Doubling{}

func (Doubling) GrowthSize(oldSize, minAdditional, maxSize int) (int, error) {
	return factorGrowth(oldSize, minAdditional, maxSize, 2, 1)
}

func (Doubling) ShrinkSize(_, liveSize int) int {
	return liveSize
}

// OneAndHalf grows a block by at least half its size each time it grows, and shrinks blocks to a
// tight fit
type OneAndHalf struct{}

var _ Policy = OneAndHalf{}

func (OneAndHalf) GrowthSize(oldSize, minAdditional, maxSize int) (int, error) {
	return factorGrowth(oldSize, minAdditional, maxSize, 3, 2)
}

func (OneAndHalf) ShrinkSize(_, liveSize int) int {
	return liveSize
}

// Hysteresis grows blocks according to Inner, but only shrinks a block once no more than a
// quarter of it is in use. That keeps a container that hovers around a size boundary from
// reallocating on every shrink.
type Hysteresis[G Policy] struct {
	Inner G
}

var _ Policy = Hysteresis[Doubling]{}

func (h Hysteresis[G]) GrowthSize(oldSize, minAdditional, maxSize int) (int, error) {
	return h.Inner.GrowthSize(oldSize, minAdditional, maxSize)
}

func (h Hysteresis[G]) ShrinkSize(oldSize, liveSize int) int {
	if liveSize > oldSize/4 {
		return oldSize
	}

	return h.Inner.ShrinkSize(oldSize, liveSize)
}
