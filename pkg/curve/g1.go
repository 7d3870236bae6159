package curve

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ErrMalformedPoint is returned when a byte string does not decode to a
// valid, canonically-compressed curve point.
var ErrMalformedPoint = errors.New("curve: malformed point encoding")

// G1 is a point on the first pairing source group, always held in affine
// form: every operation in this protocol re-serializes its result (into a
// commitment, a proof response, or a wire message) far more often than it
// chains further group operations, so affine representation avoids
// repeated Jacobian<->affine conversions at the boundaries.
type G1 struct {
	p bls12381.G1Affine
}

// G1Generator returns the fixed generator g1 shared by every party (spec
// §3: "g1 ∈ G1 ... fixed generators").
func G1Generator() G1 {
	_, _, g1, _ := bls12381.Generators()
	return G1{p: g1}
}

// G1Identity returns the point at infinity.
func G1Identity() G1 {
	return G1{}
}

// Mul returns s*p.
func (p G1) Mul(s Scalar) G1 {
	var out bls12381.G1Affine
	bi := new(big.Int)
	s.v.BigInt(bi)
	out.ScalarMultiplication(&p.p, bi)
	return G1{p: out}
}

// Add returns p+other.
func (p G1) Add(other G1) G1 {
	var out bls12381.G1Affine
	out.Add(&p.p, &other.p)
	return G1{p: out}
}

// Sub returns p-other.
func (p G1) Sub(other G1) G1 {
	return p.Add(other.Neg())
}

// Neg returns -p.
func (p G1) Neg() G1 {
	var out bls12381.G1Affine
	out.Neg(&p.p)
	return G1{p: out}
}

// Equal reports whether p and other are the same point.
func (p G1) Equal(other G1) bool {
	return p.p.Equal(&other.p)
}

// IsIdentity reports whether p is the point at infinity.
func (p G1) IsIdentity() bool {
	return p.p.IsInfinity()
}

// Bytes returns the canonical 48-byte compressed encoding (spec §6: "G1: 48
// bytes compressed").
func (p G1) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

// SetBytes decodes a 48-byte compressed G1 point.
func (p *G1) SetBytes(b []byte) error {
	if len(b) != 48 {
		return ErrMalformedPoint
	}
	var a bls12381.G1Affine
	if _, err := a.SetBytes(b); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPoint, err)
	}
	p.p = a
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p G1) MarshalBinary() ([]byte, error) { return p.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *G1) UnmarshalBinary(b []byte) error { return p.SetBytes(b) }

// String hex-encodes the compressed point.
func (p G1) String() string {
	return hex.EncodeToString(p.Bytes())
}

// G1FromString decodes a hex-encoded compressed G1 point produced by String.
func G1FromString(str string) (G1, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return G1{}, fmt.Errorf("curve: decoding G1 hex: %w", err)
	}
	var p G1
	if err := p.SetBytes(b); err != nil {
		return G1{}, err
	}
	return p, nil
}

// HashToG1 maps an arbitrary message to a uniformly random G1 point under
// the supplied domain separation tag, implementing the hash_to_curve
// construction (RFC 9380) that gnark-crypto ships for BLS12-381. The
// Coconut protocol uses this for both the independent generators
// hs[0..q-1] and for deriving commitish from a compressed attribute
// commitment (spec §4.1/§4.2).
func HashToG1(dst, msg []byte) (G1, error) {
	a, err := bls12381.HashToG1(msg, dst)
	if err != nil {
		return G1{}, fmt.Errorf("curve: hash to G1: %w", err)
	}
	return G1{p: a}, nil
}
