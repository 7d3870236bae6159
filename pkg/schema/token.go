// Package schema defines the wallet-facing token lifecycle: a TokenSecret a
// holder mints privately, the Input/Output builders that wrap it in
// zero-knowledge proofs for a Transaction, and the blind signature a holder
// ultimately unblinds back into a spendable Token.
package schema

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

// Token is what a holder ends up with after a successful mint: a Coconut
// signature over its (still secret) serial and value (spec §3). A fresh
// Token has no signature until the issuing transaction's partial
// signatures have been aggregated and unblinded.
type Token struct {
	Signature *coconut.Signature
}

// TokenSecret is the private half of a Token -- it never leaves the holder
// (spec §3: "never leaves the holder"). serial doubles as the unique burn
// tag that prevents double-spending once the token is later consumed by an
// Input.
type TokenSecret struct {
	Value  uint64
	Serial curve.Scalar
	EgPriv params.ElGamalPrivate
}

// GenerateTokenSecret samples a fresh serial and ElGamal keypair for a new
// token worth value.
func GenerateTokenSecret(p *params.Parameters, value uint64, rng io.Reader) (*TokenSecret, error) {
	serial, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("schema: sampling token serial: %w", err)
	}
	priv, _, err := params.NewElGamalKeypair(p, rng)
	if err != nil {
		return nil, fmt.Errorf("schema: sampling token elgamal key: %w", err)
	}
	return &TokenSecret{Value: value, Serial: serial, EgPriv: priv}, nil
}

// attributes returns this secret's serial and value as the protocol's fixed
// two-slot attribute vector (spec §3, schema): serial at index 0, value at
// index 1.
func (ts *TokenSecret) attributes() []coconut.Attribute {
	return []coconut.Attribute{
		coconut.NewAttribute(ts.Serial, 0),
		coconut.NewAttribute(curve.ScalarFromUint64(ts.Value), 1),
	}
}
