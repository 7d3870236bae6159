package schema

import (
	"fmt"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/wire"
)

// MarshalBinary encodes a Token as Option<Signature> (spec §6: "Option<T>
// tag byte"). A freshly minted Output that hasn't been unblinded yet has no
// signature and encodes as a single zero byte.
func (t Token) MarshalBinary() ([]byte, error) {
	w := wire.NewWriter()
	var sigErr error
	w.PutOption(t.Signature != nil, func() {
		b, err := t.Signature.MarshalBinary()
		if err != nil {
			sigErr = err
			return
		}
		w.PutFixed(b)
	})
	if sigErr != nil {
		return nil, fmt.Errorf("schema: encoding token: %w", sigErr)
	}
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a Token produced by MarshalBinary.
func (t *Token) UnmarshalBinary(b []byte) error {
	r := wire.NewReader(b)
	present, err := r.Option()
	if err != nil {
		return fmt.Errorf("schema: decoding token: %w", err)
	}
	if !present {
		t.Signature = nil
		return nil
	}
	raw, err := r.Fixed(96)
	if err != nil {
		return fmt.Errorf("schema: decoding token signature: %w", err)
	}
	var sig coconut.Signature
	if err := sig.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("schema: decoding token signature: %w", err)
	}
	t.Signature = &sig
	return nil
}

// MarshalBinary encodes a TokenSecret as value (u64) ‖ serial (Fr) ‖
// elgamal_priv.d (Fr). This never leaves the holder over the wire in normal
// operation; the encoding exists for local persistence between sessions.
func (ts TokenSecret) MarshalBinary() ([]byte, error) {
	w := wire.NewWriter()
	w.PutUint64(ts.Value)
	w.PutFixed(ts.Serial.Bytes())
	w.PutFixed(ts.EgPriv.D.Bytes())
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a TokenSecret produced by MarshalBinary.
func (ts *TokenSecret) UnmarshalBinary(b []byte) error {
	r := wire.NewReader(b)
	value, err := r.Uint64()
	if err != nil {
		return fmt.Errorf("schema: decoding token secret value: %w", err)
	}
	serialBytes, err := r.Fixed(32)
	if err != nil {
		return fmt.Errorf("schema: decoding token secret serial: %w", err)
	}
	dBytes, err := r.Fixed(32)
	if err != nil {
		return fmt.Errorf("schema: decoding token secret elgamal key: %w", err)
	}
	var serial, d curve.Scalar
	if err := serial.SetBytes(serialBytes); err != nil {
		return fmt.Errorf("schema: decoding token secret serial: %w", err)
	}
	if err := d.SetBytes(dBytes); err != nil {
		return fmt.Errorf("schema: decoding token secret elgamal key: %w", err)
	}
	ts.Value = value
	ts.Serial = serial
	ts.EgPriv = params.ElGamalPrivate{D: d}
	return nil
}
