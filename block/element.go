package block

import (
	"reflect"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/array/memutils"
)

// Mover can be implemented by *T for element types that need more than a bitwise copy when they
// are relocated. MoveInto constructs the element at dst from the receiver. The receiver will be
// destroyed immediately after MoveInto returns successfully.
type Mover[T any] interface {
	MoveInto(dst *T) error
}

// Copier can be implemented by *T for element types that need more than a bitwise copy when they
// are duplicated. CopyInto constructs the element at dst from the receiver and must leave the
// receiver untouched.
type Copier[T any] interface {
	CopyInto(dst *T) error
}

// Destroyer can be implemented by *T for element types that must release something when they are
// destroyed. The element's memory is zeroed after Destroy returns. Destroy is not called on a source
// that was relocated by a bitwise copy, since whatever it held now belongs to the relocated element.
type Destroyer interface {
	Destroy()
}

// elementOps holds the relocation behavior of a single element type
type elementOps[T any] struct {
	mover     bool
	copier    bool
	destroyer bool
}

func opsFor[T any]() elementOps[T] {
	var probe any = (*T)(nil)
	_, mover := probe.(Mover[T])
	_, copier := probe.(Copier[T])
	_, destroyer := probe.(Destroyer)

	return elementOps[T]{
		mover:     mover,
		copier:    copier,
		destroyer: destroyer,
	}
}

func (o elementOps[T]) move(src, dst *T) error {
	if o.mover {
		return any(src).(Mover[T]).MoveInto(dst)
	}

	*dst = *src
	return nil
}

func (o elementOps[T]) copy(src, dst *T) error {
	if o.copier {
		return any(src).(Copier[T]).CopyInto(dst)
	}

	*dst = *src
	return nil
}

func (o elementOps[T]) destroy(element *T) {
	if o.destroyer {
		any(element).(Destroyer).Destroy()
	}

	var zero T
	*element = zero
}

// discard ends the life of a source element after its contents were relocated. hooked reports
// whether the relocation went through a Mover or Copier; a bitwise relocation transfers ownership,
// so the source is only cleared.
func (o elementOps[T]) discard(element *T, hooked bool) {
	if hooked {
		o.destroy(element)
		return
	}

	var zero T
	*element = zero
}

func (o elementOps[T]) destroyAll(elements []T) {
	for i := range elements {
		o.destroy(&elements[i])
	}
}

// CheckElement returns an error wrapping memutils.ErrUnsupportedElement if T cannot be stored in raw
// heap memory. Heap memory is never scanned by the garbage collector, so any type that holds a Go
// pointer (including strings, slices, maps, channels, funcs and interfaces) is rejected.
func CheckElement[T any]() error {
	elementType := reflect.TypeOf((*T)(nil)).Elem()
	if !pointerFree(elementType) {
		return cerrors.Wrapf(memutils.ErrUnsupportedElement, "%s contains pointers", elementType.String())
	}

	return nil
}

func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
