// Package txn assembles Inputs and Outputs into a balanced, non-interactive
// proof of a single value-conserving transaction: some coins are destroyed
// (inputs, deposits), some are created (outputs, withdraws), and a single
// Fiat-Shamir challenge binds every proof in it together (spec §4.6:
// "Transaction Engine").
package txn

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/schema"
)

// Transaction is the wire-level unit of value transfer (spec §3:
// "Transaction"). Deposits and withdraws are transparent amounts crossing
// the system's boundary; inputs and outputs move value privately within it.
type Transaction struct {
	Deposits      []uint64
	DepositsBlind curve.Scalar
	Withdraws     []uint64
	WithdrawsBlind curve.Scalar

	Inputs  []*schema.Input
	Outputs []*schema.Output

	Challenge curve.Scalar

	inputHashes  [][32]byte
	outputHashes [][32]byte
}

// New starts an empty transaction.
func New() *Transaction {
	return &Transaction{}
}

// AddDeposit records a transparent amount entering the transaction.
func (tx *Transaction) AddDeposit(amount uint64) { tx.Deposits = append(tx.Deposits, amount) }

// AddWithdraw records a transparent amount leaving the transaction.
func (tx *Transaction) AddWithdraw(amount uint64) { tx.Withdraws = append(tx.Withdraws, amount) }

// AddInput appends in to the transaction. hash is the digest of in's own
// proof commitments (schema.InputProofCommits.Hash), computed by the
// builder before the transaction's shared challenge exists.
func (tx *Transaction) AddInput(in *schema.Input, hash [32]byte) {
	tx.Inputs = append(tx.Inputs, in)
	tx.inputHashes = append(tx.inputHashes, hash)
}

// AddOutput appends out to the transaction. hash is the digest of out's own
// proof commitments (schema.OutputProofCommits.Hash) -- the same value a
// cooperating co-signer would have used to derive out's own sub-challenge
// before handing it over (spec §9).
func (tx *Transaction) AddOutput(out *schema.Output, hash [32]byte) {
	tx.Outputs = append(tx.Outputs, out)
	tx.outputHashes = append(tx.outputHashes, hash)
}

func sumValues(values []uint64) uint64 {
	var total uint64
	for _, v := range values {
		total += v
	}
	return total
}

// ComputePedersens samples a balancing blind for every input and output
// value given, pivoting whichever item absorbs the slack so that the
// transaction's value equation holds in the exponent:
//
//	deposits_blind + sum(input_blinds) == withdraws_blind + sum(output_blinds)  (mod r)
//
// (spec §4.6: "Pivot blind"). Exactly one of three cases applies: if any
// input exists, the first input's blind is the pivot; else if any output
// exists, the first output's blind is the pivot; else the transaction must
// already balance in plaintext (deposits == withdraws) and both
// deposits_blind and withdraws_blind are set equal. The caller is
// responsible for passing the returned blinds, in order, to each input's
// and output's Setup.
func (tx *Transaction) ComputePedersens(inputValues, outputValues []uint64, rng io.Reader) (inputBlinds, outputBlinds []curve.Scalar, err error) {
	depositSum := sumValues(tx.Deposits)
	withdrawSum := sumValues(tx.Withdraws)
	if depositSum+sumValues(inputValues) != withdrawSum+sumValues(outputValues) {
		return nil, nil, fmt.Errorf("txn: deposits+inputs (%d) does not equal withdraws+outputs (%d)", depositSum+sumValues(inputValues), withdrawSum+sumValues(outputValues))
	}

	random := func() (curve.Scalar, error) {
		s, rerr := curve.RandomScalar(rng)
		if rerr != nil {
			return curve.Scalar{}, fmt.Errorf("txn: sampling blind: %w", rerr)
		}
		return s, nil
	}

	inputBlinds = make([]curve.Scalar, len(inputValues))
	outputBlinds = make([]curve.Scalar, len(outputValues))

	if tx.DepositsBlind, err = random(); err != nil {
		return nil, nil, err
	}
	if tx.WithdrawsBlind, err = random(); err != nil {
		return nil, nil, err
	}
	for i := range inputBlinds {
		if inputBlinds[i], err = random(); err != nil {
			return nil, nil, err
		}
	}
	for j := range outputBlinds {
		if outputBlinds[j], err = random(); err != nil {
			return nil, nil, err
		}
	}

	sumScalars := func(ss []curve.Scalar) curve.Scalar {
		total := curve.NewScalar()
		for _, s := range ss {
			total = total.Add(s)
		}
		return total
	}

	switch {
	case len(inputValues) > 0:
		// lhs(without pivot) + pivot == rhs  =>  pivot = rhs - lhs(without pivot)
		rhs := tx.WithdrawsBlind.Add(sumScalars(outputBlinds))
		lhsRest := tx.DepositsBlind.Add(sumScalars(inputBlinds[1:]))
		inputBlinds[0] = rhs.Sub(lhsRest)
	case len(outputValues) > 0:
		lhs := tx.DepositsBlind.Add(sumScalars(inputBlinds))
		rhsRest := tx.WithdrawsBlind.Add(sumScalars(outputBlinds[1:]))
		outputBlinds[0] = lhs.Sub(rhsRest)
	default:
		if depositSum != withdrawSum {
			return nil, nil, fmt.Errorf("txn: no inputs or outputs to balance deposits (%d) against withdraws (%d)", depositSum, withdrawSum)
		}
		tx.WithdrawsBlind = tx.DepositsBlind
	}

	return inputBlinds, outputBlinds, nil
}

// ComputeChallenge folds every input's and every output's commitment hash,
// in declaration order, into a single shared Fiat-Shamir challenge (spec
// §9: "hash, not raw commitments, is what every transcript absorbs"). Call
// once every input and output has had ProofCommits computed, before
// finishing any input's proofs -- outputs finish against their own
// independent sub-challenge instead (schema.SubChallenge) and do not need
// this value.
func (tx *Transaction) ComputeChallenge() curve.Scalar {
	h := curve.NewHasher()
	for _, hash := range tx.inputHashes {
		h.AbsorbHash(hash)
	}
	for _, hash := range tx.outputHashes {
		h.AbsorbHash(hash)
	}
	challenge := h.Finish()
	tx.Challenge = challenge
	return challenge
}

// Check verifies the transaction's value-conservation invariant (spec §3
// invariant 2, §8: "Balance"):
//
//	Ped(deposits_blind, sum(deposits)) + sum(input.pedersen)
//	  == Ped(withdraws_blind, sum(withdraws)) + sum(output.pedersen)
func (tx *Transaction) Check(p *params.Parameters) bool {
	lhs := p.PedersenCommit(tx.DepositsBlind, curve.ScalarFromUint64(sumValues(tx.Deposits)))
	for _, in := range tx.Inputs {
		lhs = lhs.Add(in.Pedersen)
	}
	rhs := p.PedersenCommit(tx.WithdrawsBlind, curve.ScalarFromUint64(sumValues(tx.Withdraws)))
	for _, out := range tx.Outputs {
		rhs = rhs.Add(out.Pedersen)
	}
	return lhs.Equal(rhs)
}
