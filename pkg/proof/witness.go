// Package proof implements the Sigma-protocol building blocks every
// transaction proof in this module is assembled from: a prover commits to
// a random nonce per secret, the shared curve.Hasher derives one Fiat-Shamir
// challenge over every commitment in the transaction, and each witness
// collapses into a response the verifier can check without ever learning
// the secret.
package proof

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
)

// Witness pairs a secret scalar with a freshly sampled nonce (spec §4.1:
// "Witness { secret: Fr, nonce: Fr }"). Every Sigma-protocol proof in this
// package is built out of one Witness per secret it must demonstrate
// knowledge of.
type Witness struct {
	secret curve.Scalar
	nonce  curve.Scalar
}

// NewWitness samples a fresh nonce for secret.
func NewWitness(secret curve.Scalar, rng io.Reader) (Witness, error) {
	nonce, err := curve.RandomScalar(rng)
	if err != nil {
		return Witness{}, fmt.Errorf("proof: sampling witness nonce: %w", err)
	}
	return Witness{secret: secret, nonce: nonce}, nil
}

// Secret returns the witnessed secret.
func (w Witness) Secret() curve.Scalar { return w.secret }

// Nonce returns the witness's commitment randomness.
func (w Witness) Nonce() curve.Scalar { return w.nonce }

// Derive collapses the witness into its Fiat-Shamir response,
// nonce - challenge*secret (spec §4.1). Once derived, the secret and nonce
// are no longer needed; the response alone lets a verifier reconstruct the
// prover's commitment given only the challenge and the public value.
func (w Witness) Derive(challenge curve.Scalar) curve.Scalar {
	return w.nonce.Sub(challenge.Mul(w.secret))
}

// Commitments is implemented by every proof's commitment set: it knows how
// to absorb itself into the shared transcript hasher in the protocol's
// fixed order (spec §4.1, §4.4). Every prover-side Commitments and its
// verifier-side reconstruction must absorb in identical order, or the
// resulting challenges will never match.
type Commitments interface {
	Absorb(h *curve.Hasher)
}
