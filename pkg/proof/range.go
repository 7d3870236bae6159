package proof

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
)

// bitSize is the width of every amount a token can carry (spec §4.5:
// "Range proof (64-bit)"). Every transaction balance check ultimately
// relies on no hidden amount silently overflowing or going negative
// modulo the scalar field, which this proof rules out bit by bit.
const bitSize = 64

// RangeBuilder proves a Pedersen commitment blind*g1 + value*hs[0] opens to
// a value in [0, 2^64) without revealing it, by splitting the commitment's
// blind across 64 per-bit commitments and proving each one opens to either
// 0 or its bit's power of two via a 2-element ring proof.
type RangeBuilder struct {
	bitBuilders []*RingBuilder
	bitCommits  []curve.G1
}

// NewRangeBuilder decomposes value into 64 bit-commitments summing to
// g1*blind + hs0*value, each proved via a discrete-log OR between "opens to
// 0" and "opens to 2^i".
func NewRangeBuilder(g1, hs0 curve.G1, blind curve.Scalar, value uint64, rng io.Reader) (*RangeBuilder, error) {
	blindParts := make([]curve.Scalar, bitSize)
	sum := curve.NewScalar()
	for i := 1; i < bitSize; i++ {
		part, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("proof: range: sampling blind part %d: %w", i, err)
		}
		blindParts[i] = part
		sum = sum.Add(part)
	}
	blindParts[0] = blind.Sub(sum)

	bitBuilders := make([]*RingBuilder, bitSize)
	bitCommits := make([]curve.G1, bitSize)
	for i := 0; i < bitSize; i++ {
		bit2i := uint64(1) << uint(i)
		bitSet := (value & bit2i) != 0

		index := 0
		bitValue := curve.NewScalar()
		if bitSet {
			index = 1
			bitValue = curve.ScalarFromUint64(bit2i)
		}
		bitCommit := g1.Mul(blindParts[i]).Add(hs0.Mul(bitValue))
		bitCommits[i] = bitCommit

		commit2i := bitCommit.Sub(hs0.Mul(curve.ScalarFromUint64(bit2i)))
		publicKeys := []curve.G1{bitCommit, commit2i}

		builder, err := NewRingBuilder(g1, publicKeys, blindParts[i], index, rng)
		if err != nil {
			return nil, fmt.Errorf("proof: range: building bit %d: %w", i, err)
		}
		bitBuilders[i] = builder
	}

	return &RangeBuilder{bitBuilders: bitBuilders, bitCommits: bitCommits}, nil
}

// RangeCommitments is the concatenation of all 64 bit-ring commitments.
type RangeCommitments struct {
	commitments []RingCommitments
}

// Commitments collects every bit proof's commitment.
func (b *RangeBuilder) Commitments() RangeCommitments {
	out := make([]RingCommitments, len(b.bitBuilders))
	for i, bit := range b.bitBuilders {
		out[i] = bit.Commitments()
	}
	return RangeCommitments{commitments: out}
}

// Absorb feeds every bit's commitments into the shared transcript in bit
// order, low bit first.
func (c RangeCommitments) Absorb(h *curve.Hasher) {
	for _, bit := range c.commitments {
		bit.Absorb(h)
	}
}

// Finish derives the final proof once the shared challenge is known.
func (b *RangeBuilder) Finish(challenge curve.Scalar) RangeProof {
	proofs := make([]RingProof, len(b.bitBuilders))
	for i, bit := range b.bitBuilders {
		proofs[i] = bit.Finish(challenge)
	}
	return RangeProof{Proofs: proofs, BitCommits: b.bitCommits}
}

// RangeProof holds every bit's ring proof alongside its commitment; the
// commitments double as the value's Pedersen commitment once summed.
type RangeProof struct {
	Proofs     []RingProof
	BitCommits []curve.G1
}

// ValueCommit returns the sum of every bit commitment, which equals the
// amount's overall Pedersen commitment g1*blind + hs0*value whenever the
// proof is valid.
func (p RangeProof) ValueCommit() curve.G1 {
	total := curve.G1Identity()
	for _, c := range p.BitCommits {
		total = total.Add(c)
	}
	return total
}

// Reconstruct re-derives each bit's ring commitment against its implied
// "opens to 0" vs "opens to 2^i" public keys, for the verifier to re-absorb.
func (p RangeProof) Reconstruct(g1, hs0 curve.G1, challenge curve.Scalar) (RangeCommitments, error) {
	if len(p.Proofs) != bitSize || len(p.BitCommits) != bitSize {
		return RangeCommitments{}, fmt.Errorf("proof: range verify: expected %d bits, got %d proofs and %d commits", bitSize, len(p.Proofs), len(p.BitCommits))
	}
	out := make([]RingCommitments, bitSize)
	for i := 0; i < bitSize; i++ {
		bit2i := uint64(1) << uint(i)
		commit2i := p.BitCommits[i].Sub(hs0.Mul(curve.ScalarFromUint64(bit2i)))
		publicKeys := []curve.G1{p.BitCommits[i], commit2i}
		rc, err := p.Proofs[i].Reconstruct(g1, challenge, publicKeys)
		if err != nil {
			return RangeCommitments{}, fmt.Errorf("proof: range verify: bit %d: %w", i, err)
		}
		out[i] = rc
	}
	return RangeCommitments{commitments: out}, nil
}
