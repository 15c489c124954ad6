// Package atomic_float provides lock-free updates to a shared float64, used to
// fold per-worker sweep residuals into a single maximum without a mutex.
package atomic_float

import (
	"math"
	"sync/atomic"
	"unsafe"
)

/*
The unsafe casts below only ever live for the duration of a single atomic call,
so the gc can never leave a stale pointer behind. Callers must not copy the
float being updated while writers are active.
*/

func bits(val *float64) *uint64 {
	return (*uint64)(unsafe.Pointer(val))
}

// AtomicRead atomically reads a float64.
func AtomicRead(val *float64) float64 {
	return math.Float64frombits(atomic.LoadUint64(bits(val)))
}

// AtomicAdd atomically adds to a float64 and returns the new value.
func AtomicAdd(val *float64, addend float64) (newVal float64) {
	for {
		old := atomic.LoadUint64(bits(val))
		newVal = math.Float64frombits(old) + addend
		if atomic.CompareAndSwapUint64(bits(val), old, math.Float64bits(newVal)) {
			return
		}
	}
}

// AtomicSet atomically stores a float64.
func AtomicSet(val *float64, newVal float64) {
	atomic.StoreUint64(bits(val), math.Float64bits(newVal))
}

// AtomicMax raises val to candidate if candidate is larger, returning the
// resulting maximum. NaN candidates are ignored.
func AtomicMax(val *float64, candidate float64) float64 {
	for {
		old := atomic.LoadUint64(bits(val))
		current := math.Float64frombits(old)
		if math.IsNaN(candidate) || candidate <= current {
			return current
		}
		if atomic.CompareAndSwapUint64(bits(val), old, math.Float64bits(candidate)) {
			return candidate
		}
	}
}
