package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~uintptr
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// AlignPointerUp returns the smallest address at or above address that is a multiple of alignment
func AlignPointerUp(address uintptr, alignment uint) uintptr {
	return (address + uintptr(alignment) - 1) &^ (uintptr(alignment) - 1)
}

// IsAligned returns true if address is a multiple of alignment
func IsAligned(address uintptr, alignment uint) bool {
	return address&(uintptr(alignment)-1) == 0
}
