package proof

import "github.com/luxfi/coconut/pkg/curve"

// OwnershipBuilder proves knowledge of the discrete log behind a public
// point public = g1*secret (spec §4.5: "Ownership"), used to show a holder
// controls a token's serial without revealing it.
type OwnershipBuilder struct {
	g1      curve.G1
	witness Witness
}

// NewOwnershipBuilder starts an ownership proof over witness, whose secret
// is the discrete log of the public point against base g1.
func NewOwnershipBuilder(g1 curve.G1, witness Witness) *OwnershipBuilder {
	return &OwnershipBuilder{g1: g1, witness: witness}
}

// OwnershipCommitments is the commitment half of an ownership proof.
type OwnershipCommitments struct {
	g1     curve.G1
	commit curve.G1
}

// Commitments computes commit = g1*nonce.
func (b *OwnershipBuilder) Commitments() OwnershipCommitments {
	return OwnershipCommitments{g1: b.g1, commit: b.g1.Mul(b.witness.Nonce())}
}

// Absorb feeds (g1, commit) into the shared transcript.
func (c OwnershipCommitments) Absorb(h *curve.Hasher) {
	h.AbsorbG1(c.g1).AbsorbG1(c.commit)
}

// Finish derives the final proof once the shared challenge is known.
func (b *OwnershipBuilder) Finish(challenge curve.Scalar) OwnershipProof {
	return OwnershipProof{Response: b.witness.Derive(challenge)}
}

// OwnershipProof is response = nonce - challenge*secret.
type OwnershipProof struct {
	Response curve.Scalar
}

// Reconstruct rebuilds the prover's commitment from the proof, the
// challenge and the public point, for the verifier to re-absorb:
// commit = g1*response + public*challenge.
func (p OwnershipProof) Reconstruct(g1 curve.G1, challenge curve.Scalar, public curve.G1) OwnershipCommitments {
	commit := g1.Mul(p.Response).Add(public.Mul(challenge))
	return OwnershipCommitments{g1: g1, commit: commit}
}
