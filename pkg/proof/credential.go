package proof

import (
	"fmt"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
)

// CredentialBuilder proves a Credential is a valid re-randomisation of a
// signature issued over the witnessed attributes (spec §4.5: "Credential
// soundness"), without revealing o, the attributes, or their original
// signature.
type CredentialBuilder struct {
	witnessAttributes []Witness // private attributes only, index-aligned with attributeIndexes
	witnessBlind      Witness   // the re-randomisation exponent o
	attributeIndexes  []uint64
}

// NewCredentialBuilder starts a credential-soundness proof. witnessBlind
// witnesses kappa's o term; witnessAttributes/attributeIndexes witness the
// private attribute values folded additively into kappa via verify_key.beta.
func NewCredentialBuilder(witnessAttributes []Witness, witnessBlind Witness, attributeIndexes []uint64) *CredentialBuilder {
	return &CredentialBuilder{witnessAttributes: witnessAttributes, witnessBlind: witnessBlind, attributeIndexes: attributeIndexes}
}

// CredentialCommitments is the commitment half of a credential-soundness
// proof.
type CredentialCommitments struct {
	g1             curve.G1
	g2             curve.G2
	hs             []curve.G1
	alpha          curve.G2
	beta           []curve.G2
	blindCommitish curve.G1
	commitKappa    curve.G2
	commitBlind    curve.G1
}

// Commitments computes
//
//	commit_kappa = g2*nonce_blind + alpha + sum(beta[i]*nonce_attr_i)
//	commit_blind = blind_commitish*nonce_blind
//
// (spec §4.5). kappa already bakes in +alpha additively, so unlike a plain
// Schnorr commitment commit_kappa carries alpha along even before any
// challenge is known; Reconstruct below compensates for that at
// verification time.
func (b *CredentialBuilder) Commitments(g1 curve.G1, g2 curve.G2, hs []curve.G1, alpha curve.G2, beta []curve.G2, blindCommitish curve.G1) (CredentialCommitments, error) {
	if len(b.witnessAttributes) != len(b.attributeIndexes) {
		return CredentialCommitments{}, fmt.Errorf("proof: credential: %d attribute witnesses for %d indexes", len(b.witnessAttributes), len(b.attributeIndexes))
	}

	commitKappa := g2.Mul(b.witnessBlind.Nonce()).Add(alpha)
	for i, idx := range b.attributeIndexes {
		if int(idx) >= len(beta) {
			return CredentialCommitments{}, fmt.Errorf("proof: credential: attribute index %d out of range", idx)
		}
		commitKappa = commitKappa.Add(beta[idx].Mul(b.witnessAttributes[i].Nonce()))
	}

	return CredentialCommitments{
		g1: g1, g2: g2, hs: hs,
		alpha: alpha, beta: beta,
		blindCommitish: blindCommitish,
		commitKappa:    commitKappa,
		commitBlind:    blindCommitish.Mul(b.witnessBlind.Nonce()),
	}, nil
}

// Absorb feeds every base point and commitment into the shared transcript,
// in the protocol's fixed order: g1, g2, hs[*], alpha, beta[*],
// blind_commitish, commit_kappa, commit_blind.
func (c CredentialCommitments) Absorb(h *curve.Hasher) {
	h.AbsorbG1(c.g1).AbsorbG2(c.g2)
	for _, hi := range c.hs {
		h.AbsorbG1(hi)
	}
	h.AbsorbG2(c.alpha)
	for _, b := range c.beta {
		h.AbsorbG2(b)
	}
	h.AbsorbG1(c.blindCommitish)
	h.AbsorbG2(c.commitKappa)
	h.AbsorbG1(c.commitBlind)
}

// Finish derives the final proof once the shared challenge is known.
func (b *CredentialBuilder) Finish(challenge curve.Scalar) CredentialProof {
	responses := make([]curve.Scalar, len(b.witnessAttributes))
	for i, w := range b.witnessAttributes {
		responses[i] = w.Derive(challenge)
	}
	return CredentialProof{
		ResponseAttributes: responses,
		ResponseBlind:      b.witnessBlind.Derive(challenge),
	}
}

// CredentialProof holds every Sigma-protocol response.
type CredentialProof struct {
	ResponseAttributes []curve.Scalar
	ResponseBlind      curve.Scalar
}

// Reconstruct rebuilds the prover's commitments from the proof and the
// credential's public data, for the verifier to re-absorb:
//
//	commit_kappa = kappa*challenge + g2*response_blind + alpha*(1-challenge) + sum(beta[i]*response_attr_i)
//	commit_blind = nu*challenge + blind_commitish*response_blind
//
// The alpha*(1-challenge) correction exists because kappa = o*g2 + alpha +
// sum(beta_i*attr_i) has alpha baked in additively rather than multiplied
// by a witnessed secret; without the correction term the two sides of the
// Sigma-protocol equation would not balance (spec §4.5).
func (p CredentialProof) Reconstruct(g1 curve.G1, g2 curve.G2, hs []curve.G1, challenge curve.Scalar, vk *coconut.VerifyKey, blindCommitish curve.G1, kappa curve.G2, nu curve.G1, attributeIndexes []uint64) (CredentialCommitments, error) {
	if len(p.ResponseAttributes) != len(attributeIndexes) {
		return CredentialCommitments{}, fmt.Errorf("proof: credential verify: %d responses for %d indexes", len(p.ResponseAttributes), len(attributeIndexes))
	}

	one := curve.ScalarFromUint64(1)
	commitKappa := kappa.Mul(challenge).Add(g2.Mul(p.ResponseBlind)).Add(vk.Alpha.Mul(one.Sub(challenge)))
	for i, idx := range attributeIndexes {
		if int(idx) >= len(vk.Beta) {
			return CredentialCommitments{}, fmt.Errorf("proof: credential verify: attribute index %d out of range", idx)
		}
		commitKappa = commitKappa.Add(vk.Beta[idx].Mul(p.ResponseAttributes[i]))
	}

	commitBlind := nu.Mul(challenge).Add(blindCommitish.Mul(p.ResponseBlind))

	return CredentialCommitments{
		g1: g1, g2: g2, hs: hs,
		alpha: vk.Alpha, beta: vk.Beta,
		blindCommitish: blindCommitish,
		commitKappa:    commitKappa,
		commitBlind:    commitBlind,
	}, nil
}
