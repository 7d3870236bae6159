package proof

import "github.com/luxfi/coconut/pkg/curve"

// PedersenBuilder proves knowledge of (blind, value) behind a Pedersen
// commitment pedersen = g1*blind + hs[0]*value (spec §4.5: "Pedersen"),
// without revealing either witness. Every input and output in a
// transaction carries one of these over its hidden amount.
type PedersenBuilder struct {
	g1, h0       curve.G1
	witnessBlind Witness
	witnessValue Witness
}

// NewPedersenBuilder starts a Pedersen-knowledge proof against bases g1/h0.
func NewPedersenBuilder(g1, h0 curve.G1, witnessBlind, witnessValue Witness) *PedersenBuilder {
	return &PedersenBuilder{g1: g1, h0: h0, witnessBlind: witnessBlind, witnessValue: witnessValue}
}

// PedersenCommitments is the commitment half of a Pedersen-knowledge proof.
type PedersenCommitments struct {
	g1, h0 curve.G1
	commit curve.G1
}

// Commitments computes commit = g1*nonce_blind + hs[0]*nonce_value.
func (b *PedersenBuilder) Commitments() PedersenCommitments {
	commit := b.g1.Mul(b.witnessBlind.Nonce()).Add(b.h0.Mul(b.witnessValue.Nonce()))
	return PedersenCommitments{g1: b.g1, h0: b.h0, commit: commit}
}

// Absorb feeds (g1, hs[0], commit) into the shared transcript.
func (c PedersenCommitments) Absorb(h *curve.Hasher) {
	h.AbsorbG1(c.g1).AbsorbG1(c.h0).AbsorbG1(c.commit)
}

// Finish derives the final proof once the shared challenge is known.
func (b *PedersenBuilder) Finish(challenge curve.Scalar) PedersenProof {
	return PedersenProof{
		ResponseBlind: b.witnessBlind.Derive(challenge),
		ResponseValue: b.witnessValue.Derive(challenge),
	}
}

// PedersenProof holds the two Sigma-protocol responses.
type PedersenProof struct {
	ResponseBlind curve.Scalar
	ResponseValue curve.Scalar
}

// Reconstruct rebuilds the prover's commitment:
// g1*response_blind + hs[0]*response_value + pedersen*challenge.
func (p PedersenProof) Reconstruct(g1, h0 curve.G1, challenge curve.Scalar, pedersen curve.G1) PedersenCommitments {
	commit := g1.Mul(p.ResponseBlind).Add(h0.Mul(p.ResponseValue)).Add(pedersen.Mul(challenge))
	return PedersenCommitments{g1: g1, h0: h0, commit: commit}
}
