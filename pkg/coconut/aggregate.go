package coconut

import (
	"fmt"

	"github.com/luxfi/coconut/internal/party"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

// Aggregate combines >= m partial signatures from distinct authorities into
// a final Signature (spec §4.3: "Aggregate"). Each partial ciphertext is
// first decrypted with the holder's own ElGamal private key into a point
// s_i = B_i - d*A_i, then Lagrange-combined at x=0 over the contributing
// authority indices. Any m-sized subset of a larger share set must yield
// the same sigma (spec §8, "Threshold Lagrange").
func Aggregate(priv params.ElGamalPrivate, commitish curve.G1, shares []PartialSignature) (*Signature, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("coconut: cannot aggregate zero signature shares")
	}
	indices := make(party.Indices, len(shares))
	for i, s := range shares {
		indices[i] = s.Index
	}
	lambda := Lagrange(indices)

	sigma := curve.G1Identity()
	for _, s := range shares {
		point := params.Decrypt(priv, s.Ciphertext)
		sigma = sigma.Add(point.Mul(lambda[s.Index]))
	}

	return &Signature{Commitish: commitish, Sigma: sigma}, nil
}
