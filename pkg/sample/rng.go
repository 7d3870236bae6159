// Package sample provides the RNG capability injected everywhere a random
// scalar or point is needed (spec §9, "RNG as a capability"). Production
// code and the tests in this module pass crypto/rand.Reader directly;
// Deterministic is a replayable alternative, which expands a fixed seed the
// same way the teacher's FROST signer derives per-session nonces.
package sample

import (
	"io"

	"github.com/zeebo/blake3"
)

const deriveKeyContext = "github.com/luxfi/coconut 2024 deterministic test RNG"

// Deterministic is an io.Reader that expands a fixed seed into an unbounded
// keystream via a keyed BLAKE3 hash, exactly the construction
// protocols/frost/sign/round1.go uses to derive per-signer nonces
// (blake3.DeriveKey + blake3.NewKeyed). It lets a transaction build be
// replayed deterministically from a seed; it must never be used outside
// tests.
type Deterministic struct {
	reader io.Reader
}

// NewDeterministic derives a keystream reader from seed.
func NewDeterministic(seed []byte) *Deterministic {
	var key [32]byte
	blake3.DeriveKey(deriveKeyContext, seed, key[:])
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		// NewKeyed only fails on a key of the wrong length, which is
		// impossible here since key is a fixed [32]byte.
		panic(err)
	}
	return &Deterministic{reader: h.Digest()}
}

// Read implements io.Reader.
func (d *Deterministic) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}
