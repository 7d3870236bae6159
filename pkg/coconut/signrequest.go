package coconut

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

// EncryptedAttribute pairs an ElGamal ciphertext with the attribute slot it
// carries (spec §3: "{ EncryptedValue, index: u64 }").
type EncryptedAttribute struct {
	Value params.EncryptedValue
	Index uint64
}

// BlindSignatureRequest is what a holder sends an authority to request a
// blind signature over a fresh token (spec §3).
type BlindSignatureRequest struct {
	AttributeCommit     curve.G1
	EncryptedAttributes []EncryptedAttribute
}

// ComputeCommitish re-derives this request's commitish, the base point its
// eventual signature will be bound to.
func (r *BlindSignatureRequest) ComputeCommitish() (curve.G1, error) {
	return ComputeCommitish(r.AttributeCommit)
}

// SignRequestOpening holds everything the holder needs to build the
// signature-soundness proof over a BlindSignatureRequest, but that must
// never be revealed to an authority (spec §4.3: "Return (request, {
// commitish, attribute_keys=k_i, blinding_factor=r }) to the caller for use
// in proofs").
type SignRequestOpening struct {
	Commitish      curve.G1
	AttributeKeys  []curve.Scalar
	BlindingFactor curve.Scalar
}

// BuildSignRequest assembles a blind-signature request over the given
// private and public attributes (spec §4.3). Private attributes are
// ElGamal-encrypted under pub so only the final signature reveals anything
// about them; public attributes are folded into attribute_commit in the
// clear. The attribute slots referenced by private and public attributes
// together must cover every slot in p (0..q-1) with no gaps or repeats --
// a Coconut signature is only ever requested over a fully-populated
// attribute vector.
func BuildSignRequest(p *params.Parameters, pub params.ElGamalPublic, private, public []Attribute, rng io.Reader) (*BlindSignatureRequest, *SignRequestOpening, error) {
	if len(private)+len(public) != p.Q() {
		return nil, nil, fmt.Errorf("coconut: sign request covers %d attributes, parameters require %d", len(private)+len(public), p.Q())
	}

	blindingFactor, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("coconut: sampling blinding factor: %w", err)
	}

	attributeCommit := p.G1().Mul(blindingFactor)
	for _, attr := range append(append([]Attribute{}, private...), public...) {
		h, err := p.H(int(attr.Index))
		if err != nil {
			return nil, nil, err
		}
		attributeCommit = attributeCommit.Add(h.Mul(attr.Value))
	}

	commitish, err := ComputeCommitish(attributeCommit)
	if err != nil {
		return nil, nil, fmt.Errorf("coconut: computing commitish: %w", err)
	}

	encrypted := make([]EncryptedAttribute, len(private))
	keys := make([]curve.Scalar, len(private))
	for i, attr := range private {
		ct, k, err := params.Encrypt(p, pub, commitish, attr.Value, rng)
		if err != nil {
			return nil, nil, fmt.Errorf("coconut: encrypting attribute %d: %w", attr.Index, err)
		}
		encrypted[i] = EncryptedAttribute{Value: ct, Index: attr.Index}
		keys[i] = k
	}

	req := &BlindSignatureRequest{AttributeCommit: attributeCommit, EncryptedAttributes: encrypted}
	opening := &SignRequestOpening{Commitish: commitish, AttributeKeys: keys, BlindingFactor: blindingFactor}
	return req, opening, nil
}
