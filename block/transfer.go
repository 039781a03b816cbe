package block

import (
	"fmt"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/array/memutils"
)

// TransferMode selects the algorithm used to relocate live elements into a new block
type TransferMode int

const (
	// TransferDestructiveMove moves each element and destroys its source before moving on to the next.
	// If a move fails partway through, the elements that were already moved are destroyed and lost.
	// Element types without a Mover cannot fail, so for them this mode is all-or-nothing.
	TransferDestructiveMove TransferMode = iota
	// TransferCopy copies every element first and destroys the sources only once all copies have
	// succeeded. A failure leaves every source element intact, at the cost of holding two copies
	// of each element while the transfer is in flight.
	TransferCopy
)

var transferModeMapping = map[TransferMode]string{
	TransferDestructiveMove: "TransferDestructiveMove",
	TransferCopy:            "TransferCopy",
}

func (m TransferMode) String() string {
	str, ok := transferModeMapping[m]
	if !ok {
		return fmt.Sprintf("TransferMode(%d)", int(m))
	}
	return str
}

func transferTarget[T any](src View[T], dst MemoryBlock) ([]T, error) {
	memutils.DebugCheckPow2(src.Alignment(), "alignment")

	if dst.Size < src.ByteSize() {
		return nil, cerrors.Mark(
			cerrors.AssertionFailedf("destination block of %d bytes cannot hold %d bytes of elements", dst.Size, src.ByteSize()),
			memutils.ErrElementTransfer,
		)
	}
	if !memutils.IsAligned(dst.Begin(), src.Alignment()) {
		return nil, cerrors.Mark(
			cerrors.AssertionFailedf("destination block at %#x is not aligned to %d", dst.Begin(), src.Alignment()),
			memutils.ErrElementTransfer,
		)
	}

	if dst.Memory == nil {
		return unsafe.Slice(new(T), src.count), nil
	}
	return unsafe.Slice((*T)(dst.Memory), src.count), nil
}

func transferError(err error, index, count int) error {
	return cerrors.Mark(
		cerrors.Wrapf(err, "relocating element %d of %d", index, count),
		memutils.ErrElementTransfer,
	)
}

// DestructiveMove relocates the elements described by src into the uninitialized block dst. Each
// element is moved and then its source is destroyed, so at any point every element is alive in
// exactly one place.
//
// If moving element k fails, elements 0..k-1 (already moved) are destroyed in dst and the error
// is returned wrapped with memutils.ErrElementTransfer. Elements k and later remain alive in src.
// Elements 0..k-1 cannot be restored.
func DestructiveMove[T any](src View[T], dst MemoryBlock) error {
	if src.count == 0 {
		return nil
	}

	target, err := transferTarget(src, dst)
	if err != nil {
		return err
	}

	ops := opsFor[T]()
	source := src.Slice()
	for i := range source {
		err = ops.move(&source[i], &target[i])
		if err != nil {
			ops.destroyAll(target[:i])
			return transferError(err, i, len(source))
		}

		ops.discard(&source[i], ops.mover)
	}

	return nil
}

// CopyThenDestroy duplicates the elements described by src into the uninitialized block dst, and
// destroys the sources only once every copy has succeeded. If copying element k fails, the copies
// 0..k-1 are destroyed and src is left exactly as it was.
func CopyThenDestroy[T any](src View[T], dst MemoryBlock) error {
	if src.count == 0 {
		return nil
	}

	target, err := transferTarget(src, dst)
	if err != nil {
		return err
	}

	ops := opsFor[T]()
	source := src.Slice()
	for i := range source {
		err = ops.copy(&source[i], &target[i])
		if err != nil {
			ops.destroyAll(target[:i])
			return transferError(err, i, len(source))
		}
	}

	for i := range source {
		ops.discard(&source[i], ops.copier)
	}
	return nil
}
