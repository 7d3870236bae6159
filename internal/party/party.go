// Package party identifies the authorities taking part in a Coconut
// federation.
package party

import (
	"github.com/cronokirby/saferith"

	"github.com/luxfi/coconut/pkg/curve"
)

// Index is the 1-based index of an authority share, matching the x
// coordinate a threshold-keygen polynomial is evaluated at (spec §4.3:
// "Share i ∈ 1..=n").
type Index uint32

// Scalar converts the index into a field element suitable for polynomial
// evaluation or Lagrange interpolation.
func (i Index) Scalar() curve.Scalar {
	nat := new(saferith.Nat).SetUint64(uint64(i))
	return curve.NewScalar().SetNat(nat)
}

// Indices is a non-empty, duplicate-free set of authority indices, ordered
// ascending.
type Indices []Index

// Contains reports whether idx appears in the set.
func (is Indices) Contains(idx Index) bool {
	for _, i := range is {
		if i == idx {
			return true
		}
	}
	return false
}
