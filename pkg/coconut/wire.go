package coconut

import (
	"fmt"

	"github.com/luxfi/coconut/internal/party"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/wire"
)

// MarshalBinary encodes a Signature as commitish ‖ sigma (spec §6: "G1: 48
// bytes compressed" applied twice, fixed width, no length prefix).
func (s Signature) MarshalBinary() ([]byte, error) {
	w := wire.NewWriter()
	w.PutFixed(s.Commitish.Bytes())
	w.PutFixed(s.Sigma.Bytes())
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a Signature produced by MarshalBinary.
func (s *Signature) UnmarshalBinary(b []byte) error {
	r := wire.NewReader(b)
	commitish, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding signature commitish: %w", err)
	}
	sigma, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding signature sigma: %w", err)
	}
	if err := s.Commitish.SetBytes(commitish); err != nil {
		return fmt.Errorf("coconut: decoding signature commitish: %w", err)
	}
	if err := s.Sigma.SetBytes(sigma); err != nil {
		return fmt.Errorf("coconut: decoding signature sigma: %w", err)
	}
	return nil
}

// MarshalBinary encodes a Credential as kappa ‖ nu ‖ blind_commitish ‖
// blind_sigma.
func (c Credential) MarshalBinary() ([]byte, error) {
	w := wire.NewWriter()
	w.PutFixed(c.Kappa.Bytes())
	w.PutFixed(c.Nu.Bytes())
	w.PutFixed(c.BlindCommitish.Bytes())
	w.PutFixed(c.BlindSigma.Bytes())
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a Credential produced by MarshalBinary.
func (c *Credential) UnmarshalBinary(b []byte) error {
	r := wire.NewReader(b)
	kappa, err := r.Fixed(96)
	if err != nil {
		return fmt.Errorf("coconut: decoding credential kappa: %w", err)
	}
	nu, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding credential nu: %w", err)
	}
	blindCommitish, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding credential blind_commitish: %w", err)
	}
	blindSigma, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding credential blind_sigma: %w", err)
	}
	if err := c.Kappa.SetBytes(kappa); err != nil {
		return fmt.Errorf("coconut: decoding credential kappa: %w", err)
	}
	if err := c.Nu.SetBytes(nu); err != nil {
		return fmt.Errorf("coconut: decoding credential nu: %w", err)
	}
	if err := c.BlindCommitish.SetBytes(blindCommitish); err != nil {
		return fmt.Errorf("coconut: decoding credential blind_commitish: %w", err)
	}
	if err := c.BlindSigma.SetBytes(blindSigma); err != nil {
		return fmt.Errorf("coconut: decoding credential blind_sigma: %w", err)
	}
	return nil
}

// MarshalBinary encodes a PartialSignature as index (u32) ‖ ciphertext.a ‖
// ciphertext.b.
func (s PartialSignature) MarshalBinary() ([]byte, error) {
	w := wire.NewWriter()
	w.PutUint32(uint32(s.Index))
	w.PutFixed(s.Ciphertext.A.Bytes())
	w.PutFixed(s.Ciphertext.B.Bytes())
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a PartialSignature produced by MarshalBinary.
func (s *PartialSignature) UnmarshalBinary(b []byte) error {
	r := wire.NewReader(b)
	idx, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("coconut: decoding partial signature index: %w", err)
	}
	a, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding partial signature ciphertext.a: %w", err)
	}
	bb, err := r.Fixed(48)
	if err != nil {
		return fmt.Errorf("coconut: decoding partial signature ciphertext.b: %w", err)
	}
	var ct params.EncryptedValue
	if err := ct.A.SetBytes(a); err != nil {
		return fmt.Errorf("coconut: decoding partial signature ciphertext.a: %w", err)
	}
	if err := ct.B.SetBytes(bb); err != nil {
		return fmt.Errorf("coconut: decoding partial signature ciphertext.b: %w", err)
	}
	s.Index = party.Index(idx)
	s.Ciphertext = ct
	return nil
}
