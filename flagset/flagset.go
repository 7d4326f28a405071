// Package flagset provides generic helpers that work with any integer flag
// type, including the types produced by the bitflags generator.
//
// The generated types carry their own methods; these functions cover the
// variadic and iterating cases the methods do not.
package flagset

import (
	"iter"
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Of returns the union of flags. Of() is the empty set.
func Of[T constraints.Integer](flags ...T) T {
	var set T
	for _, f := range flags {
		set |= f
	}
	return set
}

// All reports whether set contains every bit of every flag.
func All[T constraints.Integer](set T, flags ...T) bool {
	want := Of(flags...)
	return set&want == want
}

// Any reports whether set shares at least one bit with any of flags.
func Any[T constraints.Integer](set T, flags ...T) bool {
	return set&Of(flags...) != 0
}

// Toggle sets or clears flag in set.
func Toggle[T constraints.Integer](set *T, flag T, on bool) {
	if on {
		*set |= flag
	} else {
		*set &^= flag
	}
}

// Bits yields the single-bit members of set from the lowest bit upwards.
func Bits[T constraints.Integer](set T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range size[T]() {
			bit := T(1) << i
			if set&bit != 0 && !yield(bit) {
				return
			}
		}
	}
}

// Split returns the single-bit members of set from the lowest bit upwards.
func Split[T constraints.Integer](set T) []T {
	out := make([]T, 0, Count(set))
	for bit := range Bits(set) {
		out = append(out, bit)
	}
	return out
}

// Count returns the number of bits set.
func Count[T constraints.Integer](set T) int {
	// signed values sign-extend when widened
	mask := ^uint64(0) >> (64 - size[T]())
	return bits.OnesCount64(uint64(set) & mask)
}

func size[T constraints.Integer]() uint {
	var zero T
	return uint(unsafe.Sizeof(zero)) * 8
}
