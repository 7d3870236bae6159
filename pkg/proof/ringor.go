package proof

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
)

// RingBuilder proves knowledge of the discrete log behind exactly one of a
// list of public points, without revealing which (spec §4.5: "Discrete-log
// OR ring"), via the Abe-Ohkubo-Suzuki construction. The range proof below
// uses this with a 2-element ring per bit: "this commitment opens to 0" OR
// "this commitment opens to 2^i".
type RingBuilder struct {
	base        curve.G1
	publicKeys  []curve.G1
	secret      curve.Scalar
	secretIndex int
	witness     curve.Scalar
	responses   []curve.Scalar
}

// NewRingBuilder starts a ring proof over publicKeys, where
// publicKeys[secretIndex] == base*secret. rng supplies the witness and the
// responses for every other ring member, which double as that member's
// random commitment seed.
func NewRingBuilder(base curve.G1, publicKeys []curve.G1, secret curve.Scalar, secretIndex int, rng io.Reader) (*RingBuilder, error) {
	if secretIndex < 0 || secretIndex >= len(publicKeys) {
		return nil, fmt.Errorf("proof: ring: secret index %d out of range [0,%d)", secretIndex, len(publicKeys))
	}
	witness, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("proof: ring: sampling witness: %w", err)
	}
	responses := make([]curve.Scalar, len(publicKeys))
	for i := range responses {
		responses[i], err = curve.RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("proof: ring: sampling response %d: %w", i, err)
		}
	}
	return &RingBuilder{
		base: base, publicKeys: publicKeys,
		secret: secret, secretIndex: secretIndex,
		witness: witness, responses: responses,
	}, nil
}

func hashRingPoint(commit curve.G1, index uint32) curve.Scalar {
	return curve.NewHasher().AbsorbG1(commit).AbsorbUint32(index).Finish()
}

// RingCommitments is the final commitment produced by walking the ring
// forward from secretIndex+1 back around to secretIndex.
type RingCommitments struct {
	base   curve.G1
	commit curve.G1
}

// Commitments walks the ring starting at base*witness, hashing each
// step's local challenge forward through every non-secret member.
func (b *RingBuilder) Commitments() RingCommitments {
	commit := b.base.Mul(b.witness)
	for i := b.secretIndex + 1; i < len(b.publicKeys); i++ {
		challenge := hashRingPoint(commit, uint32(i))
		commit = b.base.Mul(b.responses[i]).Add(b.publicKeys[i].Mul(challenge))
	}
	return RingCommitments{base: b.base, commit: commit}
}

// Absorb feeds (base, commit) into the shared transcript.
func (c RingCommitments) Absorb(h *curve.Hasher) {
	h.AbsorbG1(c.base).AbsorbG1(c.commit)
}

// Finish walks the ring forward from index 0 up to secretIndex, deriving
// the local challenge each non-secret member must satisfy, then closes the
// loop at secretIndex with the real Sigma-protocol response.
func (b *RingBuilder) Finish(challenge curve.Scalar) RingProof {
	for i := 0; i < b.secretIndex; i++ {
		commit := b.base.Mul(b.responses[i]).Add(b.publicKeys[i].Mul(challenge))
		challenge = hashRingPoint(commit, uint32(i+1))
	}
	responses := append([]curve.Scalar(nil), b.responses...)
	responses[b.secretIndex] = b.witness.Sub(challenge.Mul(b.secret))
	return RingProof{Responses: responses}
}

// RingProof holds one response per ring member.
type RingProof struct {
	Responses []curve.Scalar
}

// Reconstruct re-walks the entire ring from index 0, recomputing each
// member's local challenge from its response and public key in turn, and
// returns the commitment the loop closes on.
func (p RingProof) Reconstruct(base curve.G1, challenge curve.Scalar, publicKeys []curve.G1) (RingCommitments, error) {
	if len(p.Responses) != len(publicKeys) {
		return RingCommitments{}, fmt.Errorf("proof: ring verify: %d responses for %d public keys", len(p.Responses), len(publicKeys))
	}
	commit := curve.G1Identity()
	for i := range publicKeys {
		commit = base.Mul(p.Responses[i]).Add(publicKeys[i].Mul(challenge))
		challenge = hashRingPoint(commit, uint32(i+1))
	}
	return RingCommitments{base: base, commit: commit}, nil
}
