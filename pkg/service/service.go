// Package service implements a single signing authority's half of the
// Coconut federation: it verifies every proof a Transaction carries, rejects
// anything that double-spends a token, and blind-signs every output once
// the whole transaction checks out (spec §4.8: "Signing Service").
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/coconut/internal/party"
	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/pool"
	"github.com/luxfi/coconut/pkg/schema"
	"github.com/luxfi/coconut/pkg/txn"
)

// verifyLimit bounds how many inputs or outputs a single Process call
// verifies concurrently (spec §5: "bounded worker pool, not one goroutine
// per item").
const verifyLimit = 8

// Sentinel errors, one per named failure mode (spec §7). Every error Process
// returns for a failed check wraps one of these, so errors.Is works against
// it; an error from blind-signing an output wraps the coconut error instead.
var (
	ErrTransactionPedersenCheckFailed = errors.New("service: transaction pedersens for input and output don't sum up")
	ErrTokenAlreadySpent              = errors.New("service: input token already spent")
	ErrInputTokenVerifyFailed         = errors.New("service: input token credential verify failed")
	ErrRangeproofPedersenMatchFailed  = errors.New("service: rangeproof and pedersen commitment disagree")
	ErrProofsFailed                   = errors.New("service: proof reconstruction failed")
	ErrMissingProofs                  = errors.New("service: item is missing its proofs")
)

// Service is one authority's share of a Coconut federation (spec §4.8).
// The spent set tracks every input's burn point ever accepted, keyed by its
// compressed bytes, so a service instance must live as long as its
// federation does to keep double-spend protection meaningful.
type Service struct {
	params *params.Parameters
	vk     *coconut.VerifyKey
	secret coconut.SecretKeyShare
	index  party.Index

	mu    sync.Mutex
	spent map[[48]byte]struct{}
}

// New constructs a signing service for one authority's secret key share.
func New(p *params.Parameters, vk *coconut.VerifyKey, secret coconut.SecretKeyShare) *Service {
	return &Service{
		params: p,
		vk:     vk,
		secret: secret,
		index:  secret.Index,
		spent:  make(map[[48]byte]struct{}),
	}
}

// OutputSignature is one authority's blind signature share over one output
// in a processed transaction, keyed by the output's position so a holder
// can line shares up across authorities before aggregating.
type OutputSignature struct {
	OutputIndex int
	Share       coconut.PartialSignature
}

// Process verifies every proof in tx and, if the whole transaction checks
// out, returns a blind signature share over each output (spec §4.8:
// "Process"). The spent set is only ever mutated after every check across
// the whole transaction has succeeded, so a rejected transaction -- however
// far it got through verification -- never marks any input as spent (spec
// §4.8, §5: "insertion MUST occur only after all proofs succeed").
func (s *Service) Process(tx *txn.Transaction) ([]OutputSignature, error) {
	if !tx.Check(s.params) {
		return nil, ErrTransactionPedersenCheckFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	burnKeys := make([][48]byte, len(tx.Inputs))
	for i, in := range tx.Inputs {
		var key [48]byte
		copy(key[:], in.BurnValue.Bytes())
		if _, spent := s.spent[key]; spent {
			return nil, fmt.Errorf("%w: input %d", ErrTokenAlreadySpent, i)
		}
		burnKeys[i] = key
	}

	ctx := context.Background()
	inputHashes, err := pool.Map(ctx, verifyLimit, tx.Inputs, func(_ context.Context, in *schema.Input) ([32]byte, error) {
		if in.Proofs == nil {
			return [32]byte{}, ErrMissingProofs
		}
		ok, err := coconut.Verify(s.params, s.vk, in.Credential, nil)
		if err != nil || !ok {
			return [32]byte{}, ErrInputTokenVerifyFailed
		}
		if !in.RangeMatchesPedersen() {
			return [32]byte{}, ErrRangeproofPedersenMatchFailed
		}
		commits, err := in.Proofs.Commits(s.params, s.vk, in, tx.Challenge)
		if err != nil {
			return [32]byte{}, fmt.Errorf("%w: %v", ErrProofsFailed, err)
		}
		return commits.Hash(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: verifying inputs: %w", err)
	}

	outputHashes, err := pool.Map(ctx, verifyLimit, tx.Outputs, func(_ context.Context, out *schema.Output) ([32]byte, error) {
		if out.Proofs == nil || out.Challenge == nil {
			return [32]byte{}, ErrMissingProofs
		}
		if !out.RangeMatchesPedersen() {
			return [32]byte{}, ErrRangeproofPedersenMatchFailed
		}
		commits, err := out.Proofs.Commits(s.params, out, *out.Challenge)
		if err != nil {
			return [32]byte{}, fmt.Errorf("%w: %v", ErrProofsFailed, err)
		}
		hash := commits.Hash()
		if !schema.SubChallenge(hash).Equal(*out.Challenge) {
			return [32]byte{}, fmt.Errorf("%w: output declared sub-challenge disagrees with its own commitments", ErrProofsFailed)
		}
		return hash, nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: verifying outputs: %w", err)
	}

	h := curve.NewHasher()
	for _, hash := range inputHashes {
		h.AbsorbHash(hash)
	}
	for _, hash := range outputHashes {
		h.AbsorbHash(hash)
	}
	if !h.Finish().Equal(tx.Challenge) {
		return nil, fmt.Errorf("%w: recomputed global challenge disagrees with tx.Challenge", ErrProofsFailed)
	}

	// Every check across the whole transaction has passed; only now is it
	// safe to mark inputs spent and sign outputs.
	for _, key := range burnKeys {
		s.spent[key] = struct{}{}
	}

	shares := make([]OutputSignature, len(tx.Outputs))
	for j, out := range tx.Outputs {
		share, err := coconut.BlindSign(s.secret, out.Request, nil)
		if err != nil {
			return nil, fmt.Errorf("service: blind signing output %d: %w", j, err)
		}
		shares[j] = OutputSignature{OutputIndex: j, Share: *share}
	}
	return shares, nil
}
