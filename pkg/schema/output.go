package schema

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/proof"
)

// Output mints a fresh Token: it carries a blind signature request over a
// brand new (serial, value) pair, proof that the request is well-formed,
// and a Pedersen commitment to the same value a Transaction balances
// against every input (spec §3: "Output").
type Output struct {
	Pedersen  curve.G1
	Request   *coconut.BlindSignatureRequest
	Gamma     curve.G1 // the destination's ElGamal public key, carried alongside the request
	Proofs    *OutputProofs
	Challenge *curve.Scalar // this output's own sub-challenge (spec §9)
}

// OutputSecret holds everything needed to finish an Output's proofs and,
// once partial signatures come back from a federation, unblind them into a
// spendable Token. It never leaves the wallet that built it.
type OutputSecret struct {
	secret  *TokenSecret
	opening *coconut.SignRequestOpening

	witnessBlind  proof.Witness
	witnessSerial proof.Witness
	witnessValue  proof.Witness
	witnessKeys   []proof.Witness

	witnessPedersenBlind proof.Witness

	signatureBuilder *proof.SignRequestBuilder
	pedersenBuilder  *proof.PedersenBuilder
	rangeBuilder     *proof.RangeBuilder
}

// NewOutput mints secret's (serial, value) pair into a blind-signature
// request against secret's own ElGamal key, and starts the proof that the
// request is well-formed. Call Setup once the balancing blind for this
// output is known, before ProofCommits.
func NewOutput(p *params.Parameters, secret *TokenSecret, rng io.Reader) (*Output, *OutputSecret, error) {
	pub := secret.EgPriv.Public(p)
	req, opening, err := coconut.BuildSignRequest(p, pub, secret.attributes(), nil, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: output: %w", err)
	}

	witnessBlind, err := proof.NewWitness(opening.BlindingFactor, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: output: %w", err)
	}
	witnessSerial, err := proof.NewWitness(secret.Serial, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: output: %w", err)
	}
	witnessValue, err := proof.NewWitness(curve.ScalarFromUint64(secret.Value), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("schema: output: %w", err)
	}
	witnessKeys := make([]proof.Witness, len(opening.AttributeKeys))
	for i, k := range opening.AttributeKeys {
		witnessKeys[i], err = proof.NewWitness(k, rng)
		if err != nil {
			return nil, nil, fmt.Errorf("schema: output: attribute key witness %d: %w", i, err)
		}
	}

	signatureBuilder := proof.NewSignRequestBuilder(p.HSlice(), witnessBlind, []proof.Witness{witnessSerial, witnessValue}, witnessKeys, attributeIndexes)

	out := &Output{Pedersen: curve.G1Identity(), Request: req, Gamma: pub.Gamma}
	os := &OutputSecret{
		secret:           secret,
		opening:          opening,
		witnessBlind:     witnessBlind,
		witnessSerial:    witnessSerial,
		witnessValue:     witnessValue,
		witnessKeys:      witnessKeys,
		signatureBuilder: signatureBuilder,
	}
	return out, os, nil
}

// Setup fixes this output's Pedersen blind -- chosen by the transaction's
// balancing pass, not by the output itself -- and starts the Pedersen and
// range proofs over it.
func (os *OutputSecret) Setup(p *params.Parameters, out *Output, blind curve.Scalar, rng io.Reader) error {
	witnessPedersenBlind, err := proof.NewWitness(blind, rng)
	if err != nil {
		return fmt.Errorf("schema: output setup: %w", err)
	}
	h0, err := p.H(0)
	if err != nil {
		return fmt.Errorf("schema: output setup: %w", err)
	}
	rangeBuilder, err := proof.NewRangeBuilder(p.G1(), h0, blind, os.secret.Value, rng)
	if err != nil {
		return fmt.Errorf("schema: output setup: %w", err)
	}

	os.witnessPedersenBlind = witnessPedersenBlind
	os.pedersenBuilder = proof.NewPedersenBuilder(p.G1(), h0, witnessPedersenBlind, os.witnessValue)
	os.rangeBuilder = rangeBuilder
	out.Pedersen = p.PedersenCommit(blind, curve.ScalarFromUint64(os.secret.Value))
	return nil
}

// OutputProofCommits is the commitment half of every proof an Output
// carries.
type OutputProofCommits struct {
	Signature proof.SignRequestCommitments
	Pedersen  proof.PedersenCommitments
	Range     proof.RangeCommitments
}

// Absorb feeds every sub-proof's commitments into the shared transcript in
// declaration order: signature request, pedersen, range.
func (c OutputProofCommits) Absorb(h *curve.Hasher) {
	c.Signature.Absorb(h)
	c.Pedersen.Absorb(h)
	c.Range.Absorb(h)
}

// Hash digests this output's commitments on their own. Every output's own
// sub-challenge (spec §9) is derived from exactly this hash, independent of
// however many other items a transaction ends up carrying; the same hash is
// then folded into the transaction's shared transcript.
func (c OutputProofCommits) Hash() [32]byte {
	h := curve.NewHasher()
	c.Absorb(h)
	return h.Hash()
}

// SubChallenge derives an output's own Fiat-Shamir challenge from its
// commitments alone, independent of any other item in the transaction that
// will eventually contain it (spec §9). A cooperating co-signer computes
// this to finish its own output before handing (output, hash) to whoever
// assembles the final transaction.
func SubChallenge(commitsHash [32]byte) curve.Scalar {
	return curve.NewHasher().AbsorbHash(commitsHash).Finish()
}

// ProofCommits computes the commitment half of every proof this output
// carries. Call after Setup.
func (os *OutputSecret) ProofCommits(p *params.Parameters, out *Output) (OutputProofCommits, error) {
	if os.pedersenBuilder == nil || os.rangeBuilder == nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output: ProofCommits called before Setup")
	}
	commitish, err := out.Request.ComputeCommitish()
	if err != nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output: %w", err)
	}
	sigC, err := os.signatureBuilder.Commitments(p.G1(), out.Gamma, commitish, out.Request.AttributeCommit, p.G2())
	if err != nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output: %w", err)
	}
	return OutputProofCommits{
		Signature: sigC,
		Pedersen:  os.pedersenBuilder.Commitments(),
		Range:     os.rangeBuilder.Commitments(),
	}, nil
}

// Finish derives every response against this output's own sub-challenge
// (spec §9: every output is finished against the hash of its own
// commitments alone, never the transaction's shared challenge) and attaches
// the result, along with the challenge itself, to out.
func (os *OutputSecret) Finish(out *Output, challenge curve.Scalar) {
	out.Challenge = &challenge
	out.Proofs = &OutputProofs{
		Signature: os.signatureBuilder.Finish(challenge),
		Pedersen:  os.pedersenBuilder.Finish(challenge),
		Range:     os.rangeBuilder.Finish(challenge),
	}
}

// OutputProofs holds every response an Output carries on the wire.
type OutputProofs struct {
	Signature proof.SignRequestProof
	Pedersen  proof.PedersenProof
	Range     proof.RangeProof
}

// Commits reconstructs every sub-proof's commitments from out's public data
// and out's own challenge, for a verifier to re-absorb and compare against
// out.Challenge.
func (op *OutputProofs) Commits(p *params.Parameters, out *Output, challenge curve.Scalar) (OutputProofCommits, error) {
	commitish, err := out.Request.ComputeCommitish()
	if err != nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output verify: %w", err)
	}
	sigC, err := op.Signature.Reconstruct(p.G1(), out.Gamma, commitish, out.Request.AttributeCommit, p.G2(), p.HSlice(), challenge, out.Request.EncryptedAttributes, attributeIndexes)
	if err != nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output verify: %w", err)
	}
	h0, err := p.H(0)
	if err != nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output verify: %w", err)
	}
	rangeC, err := op.Range.Reconstruct(p.G1(), h0, challenge)
	if err != nil {
		return OutputProofCommits{}, fmt.Errorf("schema: output verify: %w", err)
	}
	return OutputProofCommits{
		Signature: sigC,
		Pedersen:  op.Pedersen.Reconstruct(p.G1(), h0, challenge, out.Pedersen),
		Range:     rangeC,
	}, nil
}

// RangeMatchesPedersen reports whether this output's range proof decomposes
// the same value committed to by its Pedersen commitment.
func (out *Output) RangeMatchesPedersen() bool {
	if out.Proofs == nil {
		return false
	}
	return out.Proofs.Range.ValueCommit().Equal(out.Pedersen)
}

// Unblind aggregates a federation's partial signature shares over this
// output's request and unblinds the result into a spendable Token (spec
// §4.3: "Unblind"). shares must come from at least the federation's
// threshold of distinct authorities.
func (os *OutputSecret) Unblind(shares []coconut.PartialSignature) (*Token, error) {
	sig, err := coconut.Aggregate(os.secret.EgPriv, os.opening.Commitish, shares)
	if err != nil {
		return nil, fmt.Errorf("schema: output unblind: %w", err)
	}
	return &Token{Signature: sig}, nil
}
