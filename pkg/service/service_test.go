package service_test

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/schema"
	"github.com/luxfi/coconut/pkg/service"
	"github.com/luxfi/coconut/pkg/txn"
)

func setupServices(t *testing.T, n, m int) (*params.Parameters, *coconut.VerifyKey, []*service.Service) {
	t.Helper()
	p, err := params.New(2)
	require.NoError(t, err)
	sks, vks, err := coconut.Keygen(p, n, m, rand.Reader)
	require.NoError(t, err)
	vk, err := coconut.AggregateVerifyKey(vks)
	require.NoError(t, err)
	services := make([]*service.Service, n)
	for i, sk := range sks {
		services[i] = service.New(p, vk, sk)
	}
	return p, vk, services
}

// mintTransaction builds a fully-proved mint transaction for a fresh token
// worth value, ready to hand to every authority's Process.
func mintTransaction(t *testing.T, p *params.Parameters, value uint64) (*txn.Transaction, *schema.OutputSecret, *schema.TokenSecret) {
	t.Helper()
	secret, err := schema.GenerateTokenSecret(p, value, rand.Reader)
	require.NoError(t, err)
	out, os, err := schema.NewOutput(p, secret, rand.Reader)
	require.NoError(t, err)

	tx := txn.New()
	tx.AddDeposit(value)
	_, outputBlinds, err := tx.ComputePedersens(nil, []uint64{value}, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, os.Setup(p, out, outputBlinds[0], rand.Reader))
	commits, err := os.ProofCommits(p, out)
	require.NoError(t, err)
	hash := commits.Hash()
	os.Finish(out, schema.SubChallenge(hash))
	tx.AddOutput(out, hash)
	return tx, os, secret
}

// mintToken runs a mint transaction through every authority and unblinds the
// resulting shares into a spendable token.
func mintToken(t *testing.T, p *params.Parameters, services []*service.Service, value uint64) (*schema.Token, *schema.TokenSecret) {
	t.Helper()
	tx, os, secret := mintTransaction(t, p, value)
	var shares []coconut.PartialSignature
	for _, svc := range services {
		sigs, err := svc.Process(tx)
		require.NoError(t, err)
		shares = append(shares, sigs[0].Share)
	}
	token, err := os.Unblind(shares)
	require.NoError(t, err)
	return token, secret
}

// spendTransaction builds a fully-proved withdraw transaction spending
// token/secret worth value.
func spendTransaction(t *testing.T, p *params.Parameters, vk *coconut.VerifyKey, token *schema.Token, secret *schema.TokenSecret, value uint64) *txn.Transaction {
	t.Helper()
	in, is, err := schema.NewInput(p, vk, token, secret, rand.Reader)
	require.NoError(t, err)

	tx := txn.New()
	tx.AddWithdraw(value)
	inputBlinds, _, err := tx.ComputePedersens([]uint64{value}, nil, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, is.Setup(p, in, inputBlinds[0], rand.Reader))
	commits, err := is.ProofCommits(p, vk, in)
	require.NoError(t, err)
	hash := commits.Hash()
	tx.AddInput(in, hash)
	challenge := tx.ComputeChallenge()
	is.Finish(in, challenge)
	return tx
}

func TestProcessMintSucceedsAcrossFederation(t *testing.T) {
	p, _, services := setupServices(t, 3, 2)
	tx, os, _ := mintTransaction(t, p, 100)

	var shares []coconut.PartialSignature
	for _, svc := range services {
		sigs, err := svc.Process(tx)
		require.NoError(t, err)
		require.Len(t, sigs, 1)
		shares = append(shares, sigs[0].Share)
		if len(shares) == 2 {
			break
		}
	}

	token, err := os.Unblind(shares)
	require.NoError(t, err)
	assert.NotNil(t, token.Signature)
}

func TestProcessRejectsDoubleSpend(t *testing.T) {
	p, vk, services := setupServices(t, 1, 1)

	token, secret := mintToken(t, p, services, 50)
	withdrawTx := spendTransaction(t, p, vk, token, secret, 50)

	_, err := services[0].Process(withdrawTx)
	require.NoError(t, err)

	_, err = services[0].Process(withdrawTx)
	assert.True(t, errors.Is(err, service.ErrTokenAlreadySpent))
}

func TestProcessRejectsImbalancedTransaction(t *testing.T) {
	p, _, services := setupServices(t, 1, 1)
	tx, _, _ := mintTransaction(t, p, 100)
	tx.Deposits[0] = 999 // desync Check() from what the output actually commits to

	_, err := services[0].Process(tx)
	assert.True(t, errors.Is(err, service.ErrTransactionPedersenCheckFailed))
}

func TestProcessRejectsTamperedProof(t *testing.T) {
	p, _, services := setupServices(t, 1, 1)
	tx, _, _ := mintTransaction(t, p, 75)

	out := tx.Outputs[0]
	out.Proofs.Pedersen.ResponseValue = out.Proofs.Pedersen.ResponseValue.Add(out.Proofs.Pedersen.ResponseValue)

	_, err := services[0].Process(tx)
	assert.Error(t, err)
}
