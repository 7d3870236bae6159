package coconut

import (
	"fmt"

	"github.com/luxfi/coconut/internal/party"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

// PartialSignature is one authority's blind signature share over a
// BlindSignatureRequest (spec §3/§4.3).
type PartialSignature struct {
	Index      party.Index
	Ciphertext params.EncryptedValue
}

// BlindSign computes this authority's partial signature over req, given the
// public attributes the holder declared alongside it (spec §4.3: "Blind
// sign"). The caller is responsible for having already verified the
// signature-request proof over req before calling this -- BlindSign itself
// performs no proof checking, matching the original's blind_sign, which
// assumes the caller already validated soundness.
func BlindSign(sk SecretKeyShare, req *BlindSignatureRequest, public []Attribute) (*PartialSignature, error) {
	commitish, err := req.ComputeCommitish()
	if err != nil {
		return nil, fmt.Errorf("coconut: blind sign: %w", err)
	}

	sigA := curve.G1Identity()
	sigB := commitish.Mul(sk.X)

	for _, ea := range req.EncryptedAttributes {
		if int(ea.Index) >= len(sk.Y) {
			return nil, fmt.Errorf("coconut: blind sign: attribute index %d out of range", ea.Index)
		}
		y := sk.Y[ea.Index]
		sigA = sigA.Add(ea.Value.A.Mul(y))
		sigB = sigB.Add(ea.Value.B.Mul(y))
	}
	for _, attr := range public {
		if int(attr.Index) >= len(sk.Y) {
			return nil, fmt.Errorf("coconut: blind sign: public attribute index %d out of range", attr.Index)
		}
		y := sk.Y[attr.Index]
		sigB = sigB.Add(commitish.Mul(attr.Value).Mul(y))
	}

	return &PartialSignature{
		Index:      sk.Index,
		Ciphertext: params.EncryptedValue{A: sigA, B: sigB},
	}, nil
}
