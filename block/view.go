package block

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/array/memutils"
)

// Constructed is the type-erased description of a run of live elements that a storage object
// needs in order to resize the block holding them. View implements it for every element type.
type Constructed interface {
	memutils.Validatable

	// Len is the number of live elements
	Len() int
	// ByteSize is the number of bytes occupied by the live elements
	ByteSize() int
	// Alignment is the alignment required by the element type
	Alignment() uint
	// Within returns true if every live element lies inside the provided block
	Within(b MemoryBlock) bool
	// Relocate transfers every live element into dst, which must be uninitialized and large enough
	// to hold them, and destroys the originals.
	Relocate(dst MemoryBlock, mode TransferMode) error
}

// View is a non-owning description of count constructed values of T stored contiguously at base.
// It is owned by the caller and is only ever read by storage objects.
type View[T any] struct {
	base  *T
	count int
}

var _ Constructed = View[int]{}

// ViewOf describes the first count elements of T stored at the start of b
func ViewOf[T any](b MemoryBlock, count int) View[T] {
	if count == 0 {
		return View[T]{}
	}

	return View[T]{base: (*T)(b.Memory), count: count}
}

// ViewAt describes count elements of T starting at base
func ViewAt[T any](base *T, count int) View[T] {
	if count == 0 {
		return View[T]{}
	}

	return View[T]{base: base, count: count}
}

// EmptyView describes no elements at all
func EmptyView[T any]() View[T] {
	return View[T]{}
}

// Base returns the address of the first element, or nil for an empty view
func (v View[T]) Base() *T { return v.base }

// Len returns the number of elements in the view
func (v View[T]) Len() int { return v.count }

// Begin returns the address of the first element
func (v View[T]) Begin() uintptr {
	return uintptr(unsafe.Pointer(v.base))
}

// End returns the address one past the final element
func (v View[T]) End() uintptr {
	return v.Begin() + uintptr(v.ByteSize())
}

// ElementSize is the size in bytes of a single T
func (v View[T]) ElementSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// ByteSize is the number of bytes occupied by the elements
func (v View[T]) ByteSize() int {
	return v.count * v.ElementSize()
}

// Alignment is the alignment required by T
func (v View[T]) Alignment() uint {
	var zero T
	return uint(unsafe.Alignof(zero))
}

// Slice exposes the live elements as a slice. The slice aliases the underlying block and is
// invalidated whenever the elements are relocated.
func (v View[T]) Slice() []T {
	if v.count == 0 {
		return nil
	}

	return unsafe.Slice(v.elementBase(), v.count)
}

// elementBase substitutes a valid address for views of zero-sized elements, which never need memory
func (v View[T]) elementBase() *T {
	if v.base == nil && v.ElementSize() == 0 {
		return new(T)
	}

	return v.base
}

// Within returns true if every element lies inside b
func (v View[T]) Within(b MemoryBlock) bool {
	if v.count == 0 || v.ElementSize() == 0 {
		return true
	}

	return b.Contains(v.Begin(), v.ByteSize())
}

// Validate ensures the element type can live in heap memory and that the view is well-formed
func (v View[T]) Validate() error {
	err := CheckElement[T]()
	if err != nil {
		return err
	}

	if v.count < 0 {
		return cerrors.Errorf("view has a negative element count %d", v.count)
	}
	if v.count > 0 && v.base == nil && v.ElementSize() > 0 {
		return cerrors.Errorf("view describes %d elements but has no base address", v.count)
	}
	if v.base != nil && !memutils.IsAligned(v.Begin(), v.Alignment()) {
		return cerrors.Errorf("view base %#x is not aligned to %d", v.Begin(), v.Alignment())
	}

	return nil
}

// Relocate transfers the elements into dst with the algorithm selected by mode
func (v View[T]) Relocate(dst MemoryBlock, mode TransferMode) error {
	switch mode {
	case TransferDestructiveMove:
		return DestructiveMove(v, dst)
	case TransferCopy:
		return CopyThenDestroy(v, dst)
	default:
		return cerrors.AssertionFailedf("unknown transfer mode: %s", mode.String())
	}
}
