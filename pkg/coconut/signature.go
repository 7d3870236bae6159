package coconut

import "github.com/luxfi/coconut/pkg/curve"

// Signature is a final, aggregated Coconut signature (spec §3: "Signature {
// commitish: G1, sigma: G1 }"). It satisfies
//
//	e(commitish, VerifyKey.Alpha + sum(beta[idx_i]*attr_i)) == e(sigma, g2)
//
// for the attributes it was issued over.
type Signature struct {
	Commitish curve.G1
	Sigma     curve.G1
}

// ComputeCommitish derives the deterministic base point HashToG1(compress(c))
// used to bind a signature to the sign-request that produced it (spec §3:
// "commitish deterministically binds the signature to the sign-request").
func ComputeCommitish(attributeCommit curve.G1) (curve.G1, error) {
	return curve.HashToG1([]byte("coconut-cash-commitish"), attributeCommit.Bytes())
}
