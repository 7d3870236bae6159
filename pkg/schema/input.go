package schema

import (
	"errors"
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/proof"
)

// ErrInvalidCredential is returned when a freshly built credential fails its
// own sanity check, before it is ever shown to a signing service -- a sign
// that the token being spent carries a signature this federation's verify
// key did not actually produce.
var ErrInvalidCredential = errors.New("schema: credential is invalid")

// Input spends an existing Token: it reveals a credential re-randomised
// from the token's signature, a burn point that lets a signing service
// reject double-spends without ever learning the serial it hides, and a
// Pedersen commitment to the token's value that a Transaction balances
// against every other input and output (spec §3: "Input").
type Input struct {
	Pedersen  curve.G1
	BurnValue curve.G1
	Credential *coconut.Credential
	Proofs     *InputProofs
}

// InputSecret holds everything needed to finish an Input's proofs once the
// transaction-wide challenge (or, for the Pedersen blind, the balancing
// blind) is known. It never leaves the wallet that built it.
type InputSecret struct {
	secret *TokenSecret

	witnessSerial          proof.Witness
	witnessValue           proof.Witness
	witnessCredentialBlind proof.Witness
	witnessPedersenBlind   proof.Witness

	credentialBuilder *proof.CredentialBuilder
	serialBuilder     *proof.OwnershipBuilder
	pedersenBuilder   *proof.PedersenBuilder
	rangeBuilder      *proof.RangeBuilder
}

// attributeIndexes is the fixed two-slot layout (serial, value) every
// credential and sign-request proof in this protocol witnesses over.
var attributeIndexes = []uint64{0, 1}

// NewInput builds a fresh, unlinkable credential over an existing token and
// starts the two proofs that don't depend on the transaction's balancing
// blind: that the burn point hides the same serial the credential was
// issued over, and that the credential itself re-randomises a signature the
// federation actually produced. Call Setup once the balancing blind for
// this input is known, before ProofCommits.
func NewInput(p *params.Parameters, vk *coconut.VerifyKey, token *Token, secret *TokenSecret, rng io.Reader) (*Input, *InputSecret, error) {
	if token.Signature == nil {
		return nil, nil, fmt.Errorf("schema: input: token has no signature to spend")
	}

	cred, opening, err := coconut.BuildCredential(p, vk, *token.Signature, secret.attributes(), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: input: building credential: %w", err)
	}
	if ok, err := coconut.Verify(p, vk, cred, nil); err != nil {
		return nil, nil, fmt.Errorf("schema: input: %w", err)
	} else if !ok {
		return nil, nil, ErrInvalidCredential
	}

	witnessSerial, err := proof.NewWitness(secret.Serial, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: input: %w", err)
	}
	witnessValue, err := proof.NewWitness(curve.ScalarFromUint64(secret.Value), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: input: %w", err)
	}
	witnessCredentialBlind, err := proof.NewWitness(opening.O, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: input: %w", err)
	}

	burnValue := p.G1().Mul(secret.Serial)
	serialBuilder := proof.NewOwnershipBuilder(p.G1(), witnessSerial)
	credentialBuilder := proof.NewCredentialBuilder([]proof.Witness{witnessSerial, witnessValue}, witnessCredentialBlind, attributeIndexes)

	in := &Input{Pedersen: curve.G1Identity(), BurnValue: burnValue, Credential: cred}
	is := &InputSecret{
		secret:                 secret,
		witnessSerial:          witnessSerial,
		witnessValue:           witnessValue,
		witnessCredentialBlind: witnessCredentialBlind,
		credentialBuilder:      credentialBuilder,
		serialBuilder:          serialBuilder,
	}
	return in, is, nil
}

// Setup fixes this input's Pedersen blind -- chosen by the transaction's
// balancing pass, not by the input itself -- and starts the Pedersen and
// range proofs over it.
func (is *InputSecret) Setup(p *params.Parameters, in *Input, blind curve.Scalar, rng io.Reader) error {
	witnessPedersenBlind, err := proof.NewWitness(blind, rng)
	if err != nil {
		return fmt.Errorf("schema: input setup: %w", err)
	}
	h0, err := p.H(0)
	if err != nil {
		return fmt.Errorf("schema: input setup: %w", err)
	}
	rangeBuilder, err := proof.NewRangeBuilder(p.G1(), h0, blind, is.secret.Value, rng)
	if err != nil {
		return fmt.Errorf("schema: input setup: %w", err)
	}

	is.witnessPedersenBlind = witnessPedersenBlind
	is.pedersenBuilder = proof.NewPedersenBuilder(p.G1(), h0, witnessPedersenBlind, is.witnessValue)
	is.rangeBuilder = rangeBuilder
	in.Pedersen = p.PedersenCommit(blind, curve.ScalarFromUint64(is.secret.Value))
	return nil
}

// InputProofCommits is the commitment half of every proof an Input carries.
type InputProofCommits struct {
	Credential proof.CredentialCommitments
	Serial     proof.OwnershipCommitments
	Pedersen   proof.PedersenCommitments
	Range      proof.RangeCommitments
}

// Absorb feeds every sub-proof's commitments into the shared transcript in
// declaration order: credential, serial ownership, pedersen, range.
func (c InputProofCommits) Absorb(h *curve.Hasher) {
	c.Credential.Absorb(h)
	c.Serial.Absorb(h)
	c.Pedersen.Absorb(h)
	c.Range.Absorb(h)
}

// Hash digests this input's commitments on their own, the value folded into
// a transaction's shared transcript rather than the commitments themselves.
func (c InputProofCommits) Hash() [32]byte {
	h := curve.NewHasher()
	c.Absorb(h)
	return h.Hash()
}

// ProofCommits computes the commitment half of every proof this input
// carries. Call after Setup.
func (is *InputSecret) ProofCommits(p *params.Parameters, vk *coconut.VerifyKey, in *Input) (InputProofCommits, error) {
	if is.pedersenBuilder == nil || is.rangeBuilder == nil {
		return InputProofCommits{}, fmt.Errorf("schema: input: ProofCommits called before Setup")
	}
	credC, err := is.credentialBuilder.Commitments(p.G1(), p.G2(), p.HSlice(), vk.Alpha, vk.Beta, in.Credential.BlindCommitish)
	if err != nil {
		return InputProofCommits{}, fmt.Errorf("schema: input: %w", err)
	}
	return InputProofCommits{
		Credential: credC,
		Serial:     is.serialBuilder.Commitments(),
		Pedersen:   is.pedersenBuilder.Commitments(),
		Range:      is.rangeBuilder.Commitments(),
	}, nil
}

// Finish derives every response once the transaction's shared challenge is
// known, and attaches the result to in.
func (is *InputSecret) Finish(in *Input, challenge curve.Scalar) {
	in.Proofs = &InputProofs{
		Credential: is.credentialBuilder.Finish(challenge),
		Serial:     is.serialBuilder.Finish(challenge),
		Pedersen:   is.pedersenBuilder.Finish(challenge),
		Range:      is.rangeBuilder.Finish(challenge),
	}
}

// InputProofs holds every response an Input carries on the wire.
type InputProofs struct {
	Credential proof.CredentialProof
	Serial     proof.OwnershipProof
	Pedersen   proof.PedersenProof
	Range      proof.RangeProof
}

// Commits reconstructs every sub-proof's commitments from in's public data
// and the shared challenge, for a verifier to re-absorb into its own
// transcript and compare against the transaction's declared challenge.
func (ip *InputProofs) Commits(p *params.Parameters, vk *coconut.VerifyKey, in *Input, challenge curve.Scalar) (InputProofCommits, error) {
	credC, err := ip.Credential.Reconstruct(p.G1(), p.G2(), p.HSlice(), challenge, vk, in.Credential.BlindCommitish, in.Credential.Kappa, in.Credential.Nu, attributeIndexes)
	if err != nil {
		return InputProofCommits{}, fmt.Errorf("schema: input verify: %w", err)
	}
	h0, err := p.H(0)
	if err != nil {
		return InputProofCommits{}, fmt.Errorf("schema: input verify: %w", err)
	}
	rangeC, err := ip.Range.Reconstruct(p.G1(), h0, challenge)
	if err != nil {
		return InputProofCommits{}, fmt.Errorf("schema: input verify: %w", err)
	}
	return InputProofCommits{
		Credential: credC,
		Serial:     ip.Serial.Reconstruct(p.G1(), challenge, in.BurnValue),
		Pedersen:   ip.Pedersen.Reconstruct(p.G1(), h0, challenge, in.Pedersen),
		Range:      rangeC,
	}, nil
}

// RangeMatchesPedersen reports whether this input's range proof decomposes
// the same value committed to by its Pedersen commitment -- the two are
// built independently and must agree for the input to be well-formed.
func (in *Input) RangeMatchesPedersen() bool {
	if in.Proofs == nil {
		return false
	}
	return in.Proofs.Range.ValueCommit().Equal(in.Pedersen)
}
