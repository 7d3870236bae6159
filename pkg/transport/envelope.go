// Package transport carries Coconut messages over an anonymous broadcast
// channel: every message is stealth-addressed so only its intended
// recipient can recognise and decrypt it, then gossiped as an opaque,
// content-addressed Slab (spec §6: "External Interfaces").
package transport

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
)

// AESKey is a derived symmetric key, shared secret to an AES-256-GCM
// envelope.
type AESKey [32]byte

// ScanCode is a 4-byte fingerprint of a shared secret: once a peer has
// derived the shared secret, comparing fingerprints finds which slabs (if
// any) are addressed to it, without running the AES-GCM decryption of
// slabs addressed to someone else.
type ScanCode [4]byte

// DeriveSharedSecret computes the ECDH shared secret between a public key
// and a private scalar over G1, reduced through SHA-256 into an AES-256 key
// (spec glossary: "stealth addressing"). The sender calls this with the
// recipient's long-term public key and a fresh ephemeral secret; the
// recipient calls it with their own long-term secret and the ephemeral
// public key carried alongside the ciphertext -- both sides land on the
// same key because G1 scalar multiplication commutes.
func DeriveSharedSecret(public curve.G1, secret curve.Scalar) AESKey {
	derived := public.Mul(secret)
	return AESKey(sha256.Sum256(derived.Bytes()))
}

// CreateScanCode derives the fingerprint a recipient publishes (or computes
// locally per candidate secret) to recognise envelopes addressed to them
// without fully decrypting every slab on the channel.
func CreateScanCode(key AESKey) ScanCode {
	digest := sha256.Sum256(key[:])
	var sc ScanCode
	copy(sc[:], digest[:4])
	return sc
}

// Envelope is a stealth-addressed, AES-256-GCM encrypted message (spec §6:
// "AES-256-GCM envelope"). EphemeralPublic lets the recipient re-derive the
// shared secret; ScanCode lets every other peer skip decryption entirely.
type Envelope struct {
	EphemeralPublic curve.G1
	ScanCode        ScanCode
	Ciphertext      []byte
}

// Seal encrypts plaintext for recipientPublic under a freshly sampled
// ephemeral keypair, using the ephemeral public key's leading 12 bytes as
// the AES-GCM nonce -- unique per message since it is unique per ephemeral
// key, and never reused because a fresh ephemeral secret is sampled every
// call.
func Seal(recipientPublic curve.G1, plaintext []byte, rng io.Reader) (*Envelope, error) {
	ephemSecret, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("transport: sampling ephemeral key: %w", err)
	}
	ephemPublic := curve.G1Generator().Mul(ephemSecret)
	key := DeriveSharedSecret(recipientPublic, ephemSecret)

	ciphertext, err := seal(key, ephemPublic, plaintext)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		EphemeralPublic: ephemPublic,
		ScanCode:        CreateScanCode(key),
		Ciphertext:      ciphertext,
	}, nil
}

// Open decrypts an Envelope using the recipient's long-term private scalar.
// Callers typically check e.ScanCode against CreateScanCode(expectedKey)
// first and only call Open once it matches.
func Open(e *Envelope, recipientSecret curve.Scalar) ([]byte, error) {
	key := DeriveSharedSecret(e.EphemeralPublic, recipientSecret)
	return open(key, e.EphemeralPublic, e.Ciphertext)
}

func seal(key AESKey, ephemPublic curve.G1, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := ephemPublic.Bytes()[:gcm.NonceSize()]
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func open(key AESKey, ephemPublic curve.G1, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := ephemPublic.Bytes()[:gcm.NonceSize()]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: opening envelope: %w", err)
	}
	return plaintext, nil
}

func newGCM(key AESKey) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("transport: constructing aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("transport: constructing gcm: %w", err)
	}
	return gcm, nil
}

// DefaultRand is the randomness source production callers should pass to
// Seal.
var DefaultRand io.Reader = rand.Reader
