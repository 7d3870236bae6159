package coconut

import "github.com/luxfi/coconut/pkg/curve"

// Attribute is a scalar value embedded in a token at a fixed slot (spec
// glossary: "a scalar value embedded in a token"; this protocol ever uses
// two slots, serial and amount).
type Attribute struct {
	Value curve.Scalar
	Index uint64
}

// NewAttribute constructs an attribute for the given slot.
func NewAttribute(value curve.Scalar, index uint64) Attribute {
	return Attribute{Value: value, Index: index}
}
