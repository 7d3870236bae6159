package coconut_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

func setupFederation(t *testing.T, n, m int) (*params.Parameters, []coconut.SecretKeyShare, *coconut.VerifyKey) {
	t.Helper()
	p, err := params.New(2)
	require.NoError(t, err)
	sks, vks, err := coconut.Keygen(p, n, m, rand.Reader)
	require.NoError(t, err)
	require.Len(t, sks, n)
	require.Len(t, vks, n)
	vk, err := coconut.AggregateVerifyKey(vks)
	require.NoError(t, err)
	return p, sks, vk
}

func TestKeygenRejectsInvalidThreshold(t *testing.T) {
	p, err := params.New(2)
	require.NoError(t, err)
	_, _, err = coconut.Keygen(p, 3, 4, rand.Reader)
	assert.Error(t, err)
	_, _, err = coconut.Keygen(p, 3, 0, rand.Reader)
	assert.Error(t, err)
}

func TestThresholdSigningRoundTrip(t *testing.T) {
	p, sks, vk := setupFederation(t, 5, 3)

	serial, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	value := curve.ScalarFromUint64(100)
	attrs := []coconut.Attribute{coconut.NewAttribute(serial, 0), coconut.NewAttribute(value, 1)}

	priv, pub, err := params.NewElGamalKeypair(p, rand.Reader)
	require.NoError(t, err)

	req, opening, err := coconut.BuildSignRequest(p, pub, attrs, nil, rand.Reader)
	require.NoError(t, err)

	// Any 3-of-5 subset of partial signatures must aggregate to a valid
	// credential (spec §8: "Threshold Lagrange").
	for _, subset := range [][]int{{0, 1, 2}, {1, 3, 4}, {0, 2, 4}} {
		shares := make([]coconut.PartialSignature, 0, 3)
		for _, i := range subset {
			share, err := coconut.BlindSign(sks[i], req, nil)
			require.NoError(t, err)
			shares = append(shares, *share)
		}
		sig, err := coconut.Aggregate(priv, opening.Commitish, shares)
		require.NoError(t, err)

		cred, _, err := coconut.BuildCredential(p, vk, *sig, attrs, rand.Reader)
		require.NoError(t, err)
		ok, err := coconut.Verify(p, vk, cred, nil)
		require.NoError(t, err)
		assert.True(t, ok, "subset %v should yield a valid credential", subset)
	}
}

func TestVerifyRejectsCredentialFromWrongElGamalKey(t *testing.T) {
	p, sks, vk := setupFederation(t, 3, 2)

	serial, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	attrs := []coconut.Attribute{coconut.NewAttribute(serial, 0), coconut.NewAttribute(curve.ScalarFromUint64(50), 1)}

	_, pub, err := params.NewElGamalKeypair(p, rand.Reader)
	require.NoError(t, err)
	wrongPriv, _, err := params.NewElGamalKeypair(p, rand.Reader)
	require.NoError(t, err)

	req, opening, err := coconut.BuildSignRequest(p, pub, attrs, nil, rand.Reader)
	require.NoError(t, err)

	share0, err := coconut.BlindSign(sks[0], req, nil)
	require.NoError(t, err)
	share1, err := coconut.BlindSign(sks[1], req, nil)
	require.NoError(t, err)

	// Aggregating with the wrong ElGamal private key must not yield a
	// verifiable credential.
	sig, err := coconut.Aggregate(wrongPriv, opening.Commitish, []coconut.PartialSignature{*share0, *share1})
	require.NoError(t, err)

	cred, _, err := coconut.BuildCredential(p, vk, *sig, attrs, rand.Reader)
	require.NoError(t, err)
	ok, err := coconut.Verify(p, vk, cred, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignatureWireRoundTrip(t *testing.T) {
	p, sks, _ := setupFederation(t, 3, 2)
	serial, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	attrs := []coconut.Attribute{coconut.NewAttribute(serial, 0), coconut.NewAttribute(curve.ScalarFromUint64(1), 1)}

	priv, pub, err := params.NewElGamalKeypair(p, rand.Reader)
	require.NoError(t, err)
	req, opening, err := coconut.BuildSignRequest(p, pub, attrs, nil, rand.Reader)
	require.NoError(t, err)

	share0, err := coconut.BlindSign(sks[0], req, nil)
	require.NoError(t, err)
	share1, err := coconut.BlindSign(sks[1], req, nil)
	require.NoError(t, err)

	sig, err := coconut.Aggregate(priv, opening.Commitish, []coconut.PartialSignature{*share0, *share1})
	require.NoError(t, err)

	raw, err := sig.MarshalBinary()
	require.NoError(t, err)
	var decoded coconut.Signature
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.True(t, decoded.Commitish.Equal(sig.Commitish))
	assert.True(t, decoded.Sigma.Equal(sig.Sigma))
}

func TestPartialSignatureWireRoundTrip(t *testing.T) {
	p, sks, _ := setupFederation(t, 2, 2)
	serial, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	attrs := []coconut.Attribute{coconut.NewAttribute(serial, 0), coconut.NewAttribute(curve.ScalarFromUint64(1), 1)}
	_, pub, err := params.NewElGamalKeypair(p, rand.Reader)
	require.NoError(t, err)
	req, _, err := coconut.BuildSignRequest(p, pub, attrs, nil, rand.Reader)
	require.NoError(t, err)

	share, err := coconut.BlindSign(sks[0], req, nil)
	require.NoError(t, err)

	raw, err := share.MarshalBinary()
	require.NoError(t, err)
	var decoded coconut.PartialSignature
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.Equal(t, share.Index, decoded.Index)
	assert.True(t, decoded.Ciphertext.A.Equal(share.Ciphertext.A))
	assert.True(t, decoded.Ciphertext.B.Equal(share.Ciphertext.B))
}
