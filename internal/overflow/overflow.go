// Package overflow provides overflow-checked arithmetic for unsigned
// counters. The compiler uses it to advance program counters and compute
// jump targets; the VM uses it for its step counter. A failed operation
// leaves the counter untouched.
package overflow

import "errors"

// ErrOverflow is returned when an addition would wrap.
var ErrOverflow = errors.New("unsigned counter overflow")

// Unsigned is the set of counter types the guard operates on.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Add adds delta to *dst, failing with ErrOverflow if the result would wrap.
func Add[T Unsigned](dst *T, delta T) error {
	sum := *dst + delta
	if sum < *dst {
		return ErrOverflow
	}
	*dst = sum
	return nil
}

// Inc increments *dst by one, failing with ErrOverflow at the maximum value.
func Inc[T Unsigned](dst *T) error {
	return Add(dst, 1)
}
