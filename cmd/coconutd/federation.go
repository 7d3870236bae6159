package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/params"
	"github.com/luxfi/coconut/pkg/schema"
	"github.com/luxfi/coconut/pkg/service"
)

// attributeSlots is how many attribute slots every coconutd federation
// signs over: a token's serial and its value (spec §3, schema).
const attributeSlots = 2

// Federation is the CBOR-persisted bundle a coconutd keygen run produces:
// every authority's secret share alongside the aggregate verify key, so a
// single invocation of this demo CLI can stand in for the whole federation
// when minting or spending (spec §4.3, §4.8). A real deployment hands each
// SecretKeyShare to a different authority instead of keeping them together.
type Federation struct {
	Threshold    int
	SecretShares []coconut.SecretKeyShare
	VerifyShares []coconut.VerifyKeyShare
	AggregateKey coconut.VerifyKey
}

func newFederation(n, m int, rng io.Reader) (*Federation, error) {
	p, err := params.New(attributeSlots)
	if err != nil {
		return nil, err
	}
	sks, vks, err := coconut.Keygen(p, n, m, rng)
	if err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}
	vk, err := coconut.AggregateVerifyKey(vks)
	if err != nil {
		return nil, fmt.Errorf("aggregating verify key: %w", err)
	}
	return &Federation{Threshold: m, SecretShares: sks, VerifyShares: vks, AggregateKey: *vk}, nil
}

func (f *Federation) params() (*params.Parameters, error) {
	return params.New(attributeSlots)
}

// services instantiates one signing service per authority share, standing
// in for the n separate processes a real federation would run.
func (f *Federation) services(p *params.Parameters) []*service.Service {
	out := make([]*service.Service, len(f.SecretShares))
	for i, sks := range f.SecretShares {
		out[i] = service.New(p, &f.AggregateKey, sks)
	}
	return out
}

func loadFederation(path string) (*Federation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading federation bundle: %w", err)
	}
	var f Federation
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding federation bundle: %w", err)
	}
	return &f, nil
}

func saveFederation(path string, f *Federation) error {
	data, err := cbor.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding federation bundle: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// WalletToken bundles a token with the secret that unlocks it -- the unit a
// holder persists to disk between coconutd invocations. The wire protocol
// itself never groups them this way (spec §6); a real wallet keeps many of
// these indexed by serial instead of one file per token.
type WalletToken struct {
	Secret schema.TokenSecret
	Token  schema.Token
}

func loadWalletToken(path string) (*WalletToken, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var wt WalletToken
	if err := cbor.Unmarshal(data, &wt); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	return &wt, nil
}

func saveWalletToken(path string, wt *WalletToken) error {
	data, err := cbor.Marshal(wt)
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
