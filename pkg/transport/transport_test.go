package transport_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/transport"
)

func TestSealOpenRoundTrip(t *testing.T) {
	recipientSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	recipientPublic := curve.G1Generator().Mul(recipientSecret)

	env, err := transport.Seal(recipientPublic, []byte("a fresh token request"), rand.Reader)
	require.NoError(t, err)

	plaintext, err := transport.Open(env, recipientSecret)
	require.NoError(t, err)
	assert.Equal(t, []byte("a fresh token request"), plaintext)
}

func TestOpenRejectsWrongRecipient(t *testing.T) {
	recipientSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	recipientPublic := curve.G1Generator().Mul(recipientSecret)

	env, err := transport.Seal(recipientPublic, []byte("secret"), rand.Reader)
	require.NoError(t, err)

	wrongSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	_, err = transport.Open(env, wrongSecret)
	assert.Error(t, err)
}

func TestScanCodeMatchesOnlyIntendedRecipient(t *testing.T) {
	recipientSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	recipientPublic := curve.G1Generator().Mul(recipientSecret)

	env, err := transport.Seal(recipientPublic, []byte("msg"), rand.Reader)
	require.NoError(t, err)

	key := transport.DeriveSharedSecret(env.EphemeralPublic, recipientSecret)
	assert.Equal(t, transport.CreateScanCode(key), env.ScanCode)

	otherSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	otherKey := transport.DeriveSharedSecret(env.EphemeralPublic, otherSecret)
	assert.NotEqual(t, transport.CreateScanCode(otherKey), env.ScanCode)
}

func TestStorePutGetScan(t *testing.T) {
	store := transport.NewStore()
	recipientSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	recipientPublic := curve.G1Generator().Mul(recipientSecret)

	env, err := transport.Seal(recipientPublic, []byte("payload"), rand.Reader)
	require.NoError(t, err)

	slab := store.Put(*env, env.Ciphertext)
	assert.Equal(t, uint32(1), slab.Height)
	assert.Equal(t, uint32(1), store.Height())

	got, err := store.Get(slab.Hash())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(got.Ciphertext, env.Ciphertext))

	matches := store.Scan(env.ScanCode)
	require.Len(t, matches, 1)
	assert.Equal(t, slab.Height, matches[0].Height)

	wrongCode := env.ScanCode
	wrongCode[0] ^= 0xff
	assert.Empty(t, store.Scan(wrongCode))
}

func TestStoreGetUnknownHashFails(t *testing.T) {
	store := transport.NewStore()
	_, err := store.Get(transport.SlabHash{})
	assert.Error(t, err)
}

func TestStoreSubscribeReceivesFuturePuts(t *testing.T) {
	store := transport.NewStore()
	ch := store.Subscribe(1)

	recipientSecret, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	recipientPublic := curve.G1Generator().Mul(recipientSecret)
	env, err := transport.Seal(recipientPublic, []byte("hi"), rand.Reader)
	require.NoError(t, err)

	slab := store.Put(*env, env.Ciphertext)
	select {
	case got := <-ch:
		assert.Equal(t, slab.Hash(), got.Hash())
	default:
		t.Fatal("expected subscriber to receive the put slab")
	}
}
