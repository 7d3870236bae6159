package params

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
)

// ElGamalPrivate is a holder's decryption key (spec §3: "ElGamalPrivate {
// d: Fr }").
type ElGamalPrivate struct {
	D curve.Scalar
}

// ElGamalPublic is the corresponding public key, gamma = d*g1.
type ElGamalPublic struct {
	Gamma curve.G1
}

// NewElGamalKeypair samples a fresh ElGamal keypair over G1.
func NewElGamalKeypair(p *Parameters, rng io.Reader) (ElGamalPrivate, ElGamalPublic, error) {
	d, err := curve.RandomScalar(rng)
	if err != nil {
		return ElGamalPrivate{}, ElGamalPublic{}, fmt.Errorf("params: sampling elgamal key: %w", err)
	}
	return ElGamalPrivate{D: d}, ElGamalPublic{Gamma: p.G1().Mul(d)}, nil
}

// Public derives the public key for a private key.
func (priv ElGamalPrivate) Public(p *Parameters) ElGamalPublic {
	return ElGamalPublic{Gamma: p.G1().Mul(priv.D)}
}

// EncryptedValue is an additively-homomorphic ElGamal ciphertext over G1
// (spec §3: "EncryptedValue = (g1*k, gamma*k + commitish*attr)").
type EncryptedValue struct {
	A curve.G1 // g1*k
	B curve.G1 // gamma*k + commitish*attr
}

// Encrypt encrypts scalar attribute m under pub, using commitish as the
// base point for the message term and ephemeral randomness k (spec §4.2).
// k is returned alongside the ciphertext because the signature-request
// proof needs to prove knowledge of it.
func Encrypt(p *Parameters, pub ElGamalPublic, commitish curve.G1, m curve.Scalar, rng io.Reader) (EncryptedValue, curve.Scalar, error) {
	k, err := curve.RandomScalar(rng)
	if err != nil {
		return EncryptedValue{}, curve.Scalar{}, fmt.Errorf("params: sampling elgamal ephemeral key: %w", err)
	}
	ct := EncryptedValue{
		A: p.G1().Mul(k),
		B: pub.Gamma.Mul(k).Add(commitish.Mul(m)),
	}
	return ct, k, nil
}

// Decrypt recovers the group element commitish*m from a ciphertext encrypted
// against priv (spec §4.2: "b - d*a = commitish*m"). The scalar m itself is
// never recovered this way; only an authority's blind signature over it
// authenticates m.
func Decrypt(priv ElGamalPrivate, ct EncryptedValue) curve.G1 {
	return ct.B.Sub(ct.A.Mul(priv.D))
}
