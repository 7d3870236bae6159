package curve

import (
	"encoding/hex"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// G2 is a point on the second pairing source group, held in affine form for
// the same reasons as G1.
type G2 struct {
	p bls12381.G2Affine
}

// G2Generator returns the fixed generator g2 shared by every party.
func G2Generator() G2 {
	_, _, _, g2 := bls12381.Generators()
	return G2{p: g2}
}

// G2Identity returns the point at infinity.
func G2Identity() G2 {
	return G2{}
}

// Mul returns s*p.
func (p G2) Mul(s Scalar) G2 {
	var out bls12381.G2Affine
	bi := new(big.Int)
	s.v.BigInt(bi)
	out.ScalarMultiplication(&p.p, bi)
	return G2{p: out}
}

// Add returns p+other.
func (p G2) Add(other G2) G2 {
	var out bls12381.G2Affine
	out.Add(&p.p, &other.p)
	return G2{p: out}
}

// Sub returns p-other.
func (p G2) Sub(other G2) G2 {
	return p.Add(other.Neg())
}

// Neg returns -p.
func (p G2) Neg() G2 {
	var out bls12381.G2Affine
	out.Neg(&p.p)
	return G2{p: out}
}

// Equal reports whether p and other are the same point.
func (p G2) Equal(other G2) bool {
	return p.p.Equal(&other.p)
}

// IsIdentity reports whether p is the point at infinity.
func (p G2) IsIdentity() bool {
	return p.p.IsInfinity()
}

// Bytes returns the canonical 96-byte compressed encoding (spec §6: "G2: 96
// bytes compressed").
func (p G2) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

// SetBytes decodes a 96-byte compressed G2 point.
func (p *G2) SetBytes(b []byte) error {
	if len(b) != 96 {
		return ErrMalformedPoint
	}
	var a bls12381.G2Affine
	if _, err := a.SetBytes(b); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPoint, err)
	}
	p.p = a
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p G2) MarshalBinary() ([]byte, error) { return p.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *G2) UnmarshalBinary(b []byte) error { return p.SetBytes(b) }

// String hex-encodes the compressed point.
func (p G2) String() string {
	return hex.EncodeToString(p.Bytes())
}

// G2FromString decodes a hex-encoded compressed G2 point produced by String.
func G2FromString(str string) (G2, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return G2{}, fmt.Errorf("curve: decoding G2 hex: %w", err)
	}
	var p G2
	if err := p.SetBytes(b); err != nil {
		return G2{}, err
	}
	return p, nil
}

// PairingCheck reports whether the product of e(g1s[i], g2s[i]) over all i
// equals the identity in GT. Every pairing equation in this protocol
// (credential verification, the final Coconut signature check) is checked
// via this single primitive by moving one side to its negation, e.g.
// e(A,B) == e(C,D)  <=>  PairingCheck([A, -C], [B, D]).
func PairingCheck(g1s []G1, g2s []G2) (bool, error) {
	if len(g1s) != len(g2s) {
		return false, fmt.Errorf("curve: pairing check: mismatched slice lengths %d/%d", len(g1s), len(g2s))
	}
	a := make([]bls12381.G1Affine, len(g1s))
	b := make([]bls12381.G2Affine, len(g2s))
	for i := range g1s {
		a[i] = g1s[i].p
		b[i] = g2s[i].p
	}
	ok, err := bls12381.PairingCheck(a, b)
	if err != nil {
		return false, fmt.Errorf("curve: pairing check: %w", err)
	}
	return ok, nil
}
