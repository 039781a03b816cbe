package storage_test

import (
	"fmt"

	"github.com/vkngwrapper/array/block"
	"github.com/vkngwrapper/array/growth"
	"github.com/vkngwrapper/array/heap"
	"github.com/vkngwrapper/array/storage"
)

type vector[T any] struct {
	storage     *storage.BlockStorage[heap.NoHandle, heap.System, growth.Doubling]
	constructed block.View[T]
}

func newVector[T any]() *vector[T] {
	return &vector[T]{
		storage: storage.New[heap.NoHandle, heap.System, growth.Doubling](heap.NoHandle{}),
	}
}

func (v *vector[T]) Push(value T) error {
	size := v.constructed.ElementSize()
	if v.constructed.ByteSize()+size > v.storage.Block().Size {
		err := v.storage.Reserve(size, v.constructed)
		if err != nil {
			return err
		}
	}

	v.constructed = block.ViewOf[T](v.storage.Block(), v.constructed.Len()+1)
	v.constructed.Slice()[v.constructed.Len()-1] = value
	return nil
}

func (v *vector[T]) ShrinkToFit() error {
	err := v.storage.ShrinkToFit(v.constructed)
	if err != nil {
		return err
	}

	v.constructed = block.ViewOf[T](v.storage.Block(), v.constructed.Len())
	return nil
}

func ExampleBlockStorage() {
	v := newVector[int32]()
	defer v.storage.Destroy()

	for i := int32(1); i <= 5; i++ {
		err := v.Push(i * i)
		if err != nil {
			panic(err)
		}
	}
	fmt.Println(v.constructed.Slice(), v.storage.Block().Size)

	err := v.ShrinkToFit()
	if err != nil {
		panic(err)
	}
	fmt.Println(v.constructed.Slice(), v.storage.Block().Size)

	// Output:
	// [1 4 9 16 25] 32
	// [1 4 9 16 25] 20
}
