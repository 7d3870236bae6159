// Package params holds the common public parameters shared by every party
// in a Coconut federation, and the ElGamal keypair used to carry private
// attributes through a blind-signature request.
package params

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/coconut/pkg/curve"
)

// Parameters are immutable once constructed and freely shared by every
// authority and holder (spec §3, §5: "Common Parameters are read-only
// after construction; freely shared").
type Parameters struct {
	g1 curve.G1
	g2 curve.G2
	hs []curve.G1
}

// New derives q independent G1 generators hs[0..q-1] deterministically by
// hashing to G1 under a fixed domain tag, hs[i] = HashToG1("h" ‖ LE32(i)),
// independently of the g1/g2 generators (spec §4.2). q is fixed at federation init and bounds how many attribute
// slots (serial, value, ...) the federation can ever sign over.
func New(q int) (*Parameters, error) {
	if q <= 0 {
		return nil, fmt.Errorf("params: q must be positive, got %d", q)
	}
	hs := make([]curve.G1, q)
	for i := 0; i < q; i++ {
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(i))
		dst := []byte("coconut-cash-hs-generator")
		msg := append([]byte("h"), idx[:]...)
		p, err := curve.HashToG1(dst, msg)
		if err != nil {
			return nil, fmt.Errorf("params: deriving hs[%d]: %w", i, err)
		}
		hs[i] = p
	}
	return &Parameters{
		g1: curve.G1Generator(),
		g2: curve.G2Generator(),
		hs: hs,
	}, nil
}

// G1 returns the shared G1 generator.
func (p *Parameters) G1() curve.G1 { return p.g1 }

// G2 returns the shared G2 generator.
func (p *Parameters) G2() curve.G2 { return p.g2 }

// Q returns the number of supported attribute slots.
func (p *Parameters) Q() int { return len(p.hs) }

// H returns the independent generator for attribute slot i.
func (p *Parameters) H(i int) (curve.G1, error) {
	if i < 0 || i >= len(p.hs) {
		return curve.G1{}, fmt.Errorf("params: attribute index %d out of range [0,%d)", i, len(p.hs))
	}
	return p.hs[i], nil
}

// HSlice returns the full generator sequence hs[0..q-1]. Callers must treat
// the result as read-only.
func (p *Parameters) HSlice() []curve.G1 {
	return p.hs
}

// PedersenCommit computes blind*g1 + value*hs[0], the commitment used
// throughout to hide a u64 amount (spec §3, "Pedersen").
func (p *Parameters) PedersenCommit(blind curve.Scalar, value curve.Scalar) curve.G1 {
	return p.g1.Mul(blind).Add(p.hs[0].Mul(value))
}
