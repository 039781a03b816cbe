package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// ErrAllocationFailed is wrapped by every error a heap returns when it cannot satisfy a size/alignment request
var ErrAllocationFailed error = errors.New("allocation failed")

// ErrCapacityExceeded is wrapped by growth policies when the requested capacity cannot fit under the
// allocator's maximum block size
var ErrCapacityExceeded error = errors.New("capacity exceeded")

// ErrElementTransfer is wrapped by the transfer algorithms when an element could not be relocated
// into a new block
var ErrElementTransfer error = errors.New("element transfer failed")

// ErrUnsupportedElement is returned when a view describes elements that cannot live in raw heap memory
var ErrUnsupportedElement error = errors.New("unsupported element type")
