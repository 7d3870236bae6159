package curve

import (
	"crypto/sha256"
	"encoding/binary"
)

// Hasher is the Fiat-Shamir absorber shared by every proof in a single
// transaction (spec §4.1/§4.4): every proof primitive absorbs its public
// commitments into the *same* Hasher instance, so a single challenge scalar
// binds all of them together.
//
// Absorption order is a protocol constant. Contributions are buffered per
// kind and hashed in the fixed order u32s, scalars, G1 points, G2 points, so
// interleaving calls of different kinds does not matter, but changing the
// order of calls of the same kind changes the resulting challenge; every
// primitive's commit/verify pair must make them in lockstep.
type Hasher struct {
	u32s    []uint32
	scalars []Scalar
	g1s     []G1
	g2s     []G2
}

// NewHasher returns an empty absorber.
func NewHasher() *Hasher {
	return &Hasher{}
}

// AbsorbUint32 buffers a 32-bit integer contribution (used for domain
// separation, such as a ring member's index within an OR proof).
func (h *Hasher) AbsorbUint32(v uint32) *Hasher {
	h.u32s = append(h.u32s, v)
	return h
}

// AbsorbScalar buffers a scalar contribution.
func (h *Hasher) AbsorbScalar(s Scalar) *Hasher {
	h.scalars = append(h.scalars, s)
	return h
}

// AbsorbG1 buffers a G1 point contribution.
func (h *Hasher) AbsorbG1(p G1) *Hasher {
	h.g1s = append(h.g1s, p)
	return h
}

// AbsorbG2 buffers a G2 point contribution.
func (h *Hasher) AbsorbG2(p G2) *Hasher {
	h.g2s = append(h.g2s, p)
	return h
}

// Finish derives the Fiat-Shamir challenge from everything absorbed so far.
//
// It builds SHA-256(i ‖ u32s ‖ scalars ‖ g1s ‖ g2s) for an incrementing
// 32-bit counter i starting at 0, and accepts the first digest that
// represents a canonical field element, retrying with i+1 otherwise (spec
// §4.1). This guarantees a uniform challenge while keeping the
// construction fully deterministic given the absorbed transcript, which is
// what lets an independent verifier recompute the identical challenge.
func (h *Hasher) Finish() Scalar {
	body := h.transcriptBody()
	for i := uint32(0); ; i++ {
		hasher := sha256.New()
		var iBuf [4]byte
		binary.LittleEndian.PutUint32(iBuf[:], i)
		hasher.Write(iBuf[:])
		hasher.Write(body)
		digest := hasher.Sum(nil)

		var padded [32]byte
		copy(padded[:], digest)
		if s, ok := scalarFromRejection(reversedCopy(padded[:])); ok {
			return s
		}
	}
}

// Hash absorbs everything buffered into a *fresh* hasher and returns its
// 32-byte SHA-256 digest (not reduced mod the field order). This is what
// multi-party outputs publish instead of their raw commitments: a peer
// that only learns the hash cannot extract the witnesses behind it, yet
// the hash can still be absorbed into the shared global hasher to bind the
// output into the transaction's challenge (spec §9, "commitment vs
// commitment-hash absorption").
func (h *Hasher) Hash() [32]byte {
	hasher := sha256.New()
	hasher.Write(h.transcriptBody())
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

func (h *Hasher) transcriptBody() []byte {
	var buf []byte
	for _, v := range h.u32s {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}
	for _, s := range h.scalars {
		buf = append(buf, s.Bytes()...)
	}
	for _, p := range h.g1s {
		buf = append(buf, p.Bytes()...)
	}
	for _, p := range h.g2s {
		buf = append(buf, p.Bytes()...)
	}
	return buf
}

// AbsorbHash absorbs a precomputed 32-byte digest as if it were the raw
// bytes of a scalar-sized contribution; used when stitching a
// per-output Hash() result into the global hasher.
func (h *Hasher) AbsorbHash(digest [32]byte) *Hasher {
	var s Scalar
	// A SHA-256 digest is not guaranteed to be canonical; use it as is when
	// it is, otherwise rehash it as SHA-256(digest ‖ i) for i = 1, 2, ...
	// until the result is. Any fixed, injective-enough mapping works here
	// since this value is only ever re-derived, never inverted.
	i := 0
	for {
		if s2, ok := scalarFromRejection(reversedCopy(roll(digest, i))); ok {
			s = s2
			break
		}
		i++
	}
	h.scalars = append(h.scalars, s)
	return h
}

func roll(digest [32]byte, i int) []byte {
	if i == 0 {
		b := make([]byte, 32)
		copy(b, digest[:])
		return b
	}
	hasher := sha256.New()
	hasher.Write(digest[:])
	var iBuf [4]byte
	binary.LittleEndian.PutUint32(iBuf[:], uint32(i))
	hasher.Write(iBuf[:])
	return hasher.Sum(nil)
}

func reversedCopy(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	reverse(out)
	return out
}
