// Package curve wraps the BLS12-381 pairing groups (Fr, G1, G2) used
// throughout the protocol, and provides the Fiat-Shamir absorber that turns
// proof commitments into a shared challenge.
//
// All arithmetic is delegated to github.com/consensys/gnark-crypto's
// bls12-381 implementation; this package exists to give the rest of the
// repository a small, spec-shaped surface (scalar sampling, hex string
// round-tripping, hash-to-group) instead of spreading gnark-crypto calls
// throughout the codebase.
package curve

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/cronokirby/saferith"
)

// ErrMalformedScalar is returned when a byte string does not decode to a
// canonical field element.
var ErrMalformedScalar = errors.New("curve: malformed scalar encoding")

// Scalar is an element of Fr, the BLS12-381 scalar field.
type Scalar struct {
	v fr.Element
}

// NewScalar returns the zero scalar.
func NewScalar() Scalar {
	return Scalar{}
}

// RandomScalar samples a uniformly random element of Fr using the supplied
// randomness source. Production call sites and the tests in this module pass
// crypto/rand.Reader; any io.Reader works, including pkg/sample's
// deterministic one.
func RandomScalar(src io.Reader) (Scalar, error) {
	var buf [32]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return Scalar{}, fmt.Errorf("curve: reading random scalar: %w", err)
	}
	s, ok := scalarFromRejection(buf[:])
	if !ok {
		// The Fr modulus is about 0.45*2^256, so more than half of all
		// draws land here; retry.
		return RandomScalar(src)
	}
	return s, nil
}

// scalarFromRejection interprets buf as a big-endian integer and returns
// (element, true) only if it is already canonical, i.e. less than the field
// modulus; this is the rejection sampling the spec requires ("sampled
// uniformly by rejection from 32 random bytes").
func scalarFromRejection(buf []byte) (Scalar, bool) {
	var i big.Int
	i.SetBytes(buf)
	if i.Cmp(fr.Modulus()) >= 0 {
		return Scalar{}, false
	}
	var s Scalar
	s.v.SetBigInt(&i)
	return s, true
}

// ScalarFromUint64 embeds a small integer (e.g. a u64 token amount) as a
// scalar.
func ScalarFromUint64(v uint64) Scalar {
	var s Scalar
	s.v.SetUint64(v)
	return s
}

// SetNat sets the scalar from a saferith.Nat, the representation the
// teacher's codebase uses for converting party indices into field elements
// (see pkg/math/polynomial/lagrange_test.go upstream).
func (s Scalar) SetNat(n *saferith.Nat) Scalar {
	var bi big.Int
	n.Big(&bi)
	var out Scalar
	out.v.SetBigInt(&bi)
	return out
}

// Add returns s + other.
func (s Scalar) Add(other Scalar) Scalar {
	var out Scalar
	out.v.Add(&s.v, &other.v)
	return out
}

// Sub returns s - other.
func (s Scalar) Sub(other Scalar) Scalar {
	var out Scalar
	out.v.Sub(&s.v, &other.v)
	return out
}

// Mul returns s * other.
func (s Scalar) Mul(other Scalar) Scalar {
	var out Scalar
	out.v.Mul(&s.v, &other.v)
	return out
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	var out Scalar
	out.v.Neg(&s.v)
	return out
}

// Invert returns s^-1. Panics on the zero scalar, mirroring gnark-crypto's
// own Inverse contract; callers must never invert an unchecked witness.
func (s Scalar) Invert() Scalar {
	if s.IsZero() {
		panic("curve: inverse of zero scalar")
	}
	var out Scalar
	out.v.Inverse(&s.v)
	return out
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.v.IsZero()
}

// Equal reports whether s and other represent the same field element.
func (s Scalar) Equal(other Scalar) bool {
	return s.v.Equal(&other.v)
}

// Bytes returns the canonical 32-byte little-endian encoding of s, as
// produced by gnark-crypto for the chosen curve (spec §6: "Fr: 32 bytes,
// canonical ... as per the curve library").
func (s Scalar) Bytes() []byte {
	b := s.v.Bytes()
	// fr.Element.Bytes returns big-endian; the wire format commits to
	// little-endian, so reverse once here rather than scatter byte-order
	// concerns through pkg/wire.
	reverse(b[:])
	return b[:]
}

// SetBytes decodes a 32-byte little-endian scalar, rejecting non-canonical
// (>= modulus) encodings.
func (s *Scalar) SetBytes(b []byte) error {
	if len(b) != 32 {
		return ErrMalformedScalar
	}
	var rev [32]byte
	copy(rev[:], b)
	reverse(rev[:])
	var i big.Int
	i.SetBytes(rev[:])
	if i.Cmp(fr.Modulus()) >= 0 {
		return ErrMalformedScalar
	}
	s.v.SetBigInt(&i)
	return nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Scalar) MarshalBinary() ([]byte, error) { return s.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Scalar) UnmarshalBinary(b []byte) error { return s.SetBytes(b) }

// String hex-encodes the scalar's canonical byte representation.
func (s Scalar) String() string {
	b := s.Bytes()
	return hex.EncodeToString(b)
}

// ScalarFromString decodes a hex-encoded scalar produced by String.
func ScalarFromString(str string) (Scalar, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return Scalar{}, fmt.Errorf("curve: decoding scalar hex: %w", err)
	}
	var s Scalar
	if err := s.SetBytes(b); err != nil {
		return Scalar{}, err
	}
	return s, nil
}
