package proof

import (
	"fmt"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
)

// SignRequestBuilder proves a BlindSignatureRequest is well-formed (spec
// §4.5: "Signature-request soundness"): that attribute_commit and every
// ElGamal ciphertext in the request share the same blinding factor and
// attribute values the holder claims, without revealing any of them to the
// signing authority.
type SignRequestBuilder struct {
	hs                []curve.G1 // parameters' h sequence, one per attribute slot
	witnessBlind      Witness
	witnessAttributes []Witness // one per attribute slot, index-aligned with hs
	witnessKeys       []Witness // one per private (encrypted) attribute
	attributeIndexes  []uint64  // the slots those witnessKeys/ciphertexts belong to
}

// NewSignRequestBuilder starts a signature-request soundness proof.
// witnessAttributes has one entry per slot in hs (both public and private
// slots, in slot order); witnessKeys and attributeIndexes describe only the
// private (encrypted) slots, in the same order as the request's
// EncryptedAttributes.
func NewSignRequestBuilder(hs []curve.G1, witnessBlind Witness, witnessAttributes, witnessKeys []Witness, attributeIndexes []uint64) *SignRequestBuilder {
	return &SignRequestBuilder{
		hs:                hs,
		witnessBlind:      witnessBlind,
		witnessAttributes: witnessAttributes,
		witnessKeys:       witnessKeys,
		attributeIndexes:  attributeIndexes,
	}
}

type keyCommitPair struct {
	a, b curve.G1
}

// SignRequestCommitments is the commitment half of a signature-request
// soundness proof.
type SignRequestCommitments struct {
	g1, gamma, commitish, attributeCommit curve.G1
	g2                                    curve.G2
	hs                                    []curve.G1
	commitAttributes                      curve.G1
	commitKeys                            []keyCommitPair
}

// Commitments computes
//
//	commit_attributes = g1*nonce_blind + sum(hs[i]*nonce_attr_i)
//	commit_keys[i]     = (g1*nonce_key_i, commitish*nonce_attr_i + gamma*nonce_key_i)
//
// (spec §4.5). commit_attributes ranges over every attribute slot;
// commit_keys ranges only over the encrypted (private) slots.
func (b *SignRequestBuilder) Commitments(g1, gamma, commitish, attributeCommit curve.G1, g2 curve.G2) (SignRequestCommitments, error) {
	if len(b.witnessAttributes) != len(b.hs) {
		return SignRequestCommitments{}, fmt.Errorf("proof: sign request: %d attribute witnesses for %d hs generators", len(b.witnessAttributes), len(b.hs))
	}
	if len(b.witnessKeys) != len(b.attributeIndexes) {
		return SignRequestCommitments{}, fmt.Errorf("proof: sign request: %d key witnesses for %d indexes", len(b.witnessKeys), len(b.attributeIndexes))
	}

	commitAttributes := g1.Mul(b.witnessBlind.Nonce())
	for i, w := range b.witnessAttributes {
		commitAttributes = commitAttributes.Add(b.hs[i].Mul(w.Nonce()))
	}

	commitKeys := make([]keyCommitPair, len(b.attributeIndexes))
	for i, idx := range b.attributeIndexes {
		if int(idx) >= len(b.witnessAttributes) {
			return SignRequestCommitments{}, fmt.Errorf("proof: sign request: attribute index %d out of range", idx)
		}
		wAttr := b.witnessAttributes[idx]
		wKey := b.witnessKeys[i]
		commitKeys[i] = keyCommitPair{
			a: g1.Mul(wKey.Nonce()),
			b: commitish.Mul(wAttr.Nonce()).Add(gamma.Mul(wKey.Nonce())),
		}
	}

	return SignRequestCommitments{
		g1: g1, gamma: gamma, commitish: commitish, attributeCommit: attributeCommit, g2: g2,
		hs:                b.hs,
		commitAttributes:  commitAttributes,
		commitKeys:        commitKeys,
	}, nil
}

// Absorb feeds every base point and commitment into the shared transcript,
// in the protocol's fixed order: g1, g2, hs[*], gamma, commitish,
// attribute_commit, commit_attributes, then each (a,b) key-commit pair.
func (c SignRequestCommitments) Absorb(h *curve.Hasher) {
	h.AbsorbG1(c.g1).AbsorbG2(c.g2)
	for _, hi := range c.hs {
		h.AbsorbG1(hi)
	}
	h.AbsorbG1(c.gamma).AbsorbG1(c.commitish).AbsorbG1(c.attributeCommit)
	h.AbsorbG1(c.commitAttributes)
	for _, pair := range c.commitKeys {
		h.AbsorbG1(pair.a).AbsorbG1(pair.b)
	}
}

// Finish derives the final proof once the shared challenge is known.
func (b *SignRequestBuilder) Finish(challenge curve.Scalar) SignRequestProof {
	responseAttributes := make([]curve.Scalar, len(b.witnessAttributes))
	for i, w := range b.witnessAttributes {
		responseAttributes[i] = w.Derive(challenge)
	}
	responseKeys := make([]curve.Scalar, len(b.witnessKeys))
	for i, w := range b.witnessKeys {
		responseKeys[i] = w.Derive(challenge)
	}
	return SignRequestProof{
		ResponseBlind:      b.witnessBlind.Derive(challenge),
		ResponseAttributes: responseAttributes,
		ResponseKeys:       responseKeys,
	}
}

// SignRequestProof holds every Sigma-protocol response.
type SignRequestProof struct {
	ResponseBlind      curve.Scalar
	ResponseAttributes []curve.Scalar
	ResponseKeys       []curve.Scalar
}

// Reconstruct rebuilds the prover's commitments from the proof and the
// request's public data, for the verifier to re-absorb:
//
//	commit_attributes = attribute_commit*challenge + g1*response_blind + sum(hs[i]*response_attr_i)
//	commit_keys[i] = (A_i*challenge + g1*response_key_i, B_i*challenge + gamma*response_key_i + commitish*response_attr_i)
func (p SignRequestProof) Reconstruct(
	g1, gamma, commitish, attributeCommit curve.G1,
	g2 curve.G2,
	hs []curve.G1,
	challenge curve.Scalar,
	encrypted []coconut.EncryptedAttribute,
	attributeIndexes []uint64,
) (SignRequestCommitments, error) {
	if len(p.ResponseAttributes) != len(hs) {
		return SignRequestCommitments{}, fmt.Errorf("proof: sign request verify: %d responses for %d hs generators", len(p.ResponseAttributes), len(hs))
	}
	if len(encrypted) != len(attributeIndexes) || len(p.ResponseKeys) != len(attributeIndexes) {
		return SignRequestCommitments{}, fmt.Errorf("proof: sign request verify: mismatched key response/ciphertext/index counts")
	}

	commitAttributes := attributeCommit.Mul(challenge).Add(g1.Mul(p.ResponseBlind))
	for i, r := range p.ResponseAttributes {
		commitAttributes = commitAttributes.Add(hs[i].Mul(r))
	}

	commitKeys := make([]keyCommitPair, len(attributeIndexes))
	for i, idx := range attributeIndexes {
		if int(idx) >= len(p.ResponseAttributes) {
			return SignRequestCommitments{}, fmt.Errorf("proof: sign request verify: attribute index %d out of range", idx)
		}
		responseAttr := p.ResponseAttributes[idx]
		responseKey := p.ResponseKeys[i]
		ct := encrypted[i].Value
		commitKeys[i] = keyCommitPair{
			a: ct.A.Mul(challenge).Add(g1.Mul(responseKey)),
			b: ct.B.Mul(challenge).Add(gamma.Mul(responseKey)).Add(commitish.Mul(responseAttr)),
		}
	}

	return SignRequestCommitments{
		g1: g1, gamma: gamma, commitish: commitish, attributeCommit: attributeCommit, g2: g2,
		hs:               hs,
		commitAttributes: commitAttributes,
		commitKeys:       commitKeys,
	}, nil
}
