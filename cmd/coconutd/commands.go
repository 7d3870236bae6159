package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luxfi/coconut/pkg/coconut"
	"github.com/luxfi/coconut/pkg/schema"
	"github.com/luxfi/coconut/pkg/txn"
)

func runKeygen(cmd *cobra.Command, args []string) error {
	f, err := newFederation(parties, threshold, rand.Reader)
	if err != nil {
		return fmt.Errorf("keygen failed: %w", err)
	}

	if outputFile == "" {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		outputFile = filepath.Join(configDir, "federation.cbor")
	}
	if err := saveFederation(outputFile, f); err != nil {
		return err
	}

	alpha, err := f.AggregateKey.Alpha.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Printf("Generated a %d-of-%d federation, bundle saved to: %s\n", threshold, parties, outputFile)
	fmt.Printf("Aggregate verify key alpha: %s\n", hex.EncodeToString(alpha))
	return nil
}

// collectShares runs tx through every authority in f, then transposes the
// resulting authority-major share matrix into an output-major one and keeps
// only the first f.Threshold shares per output -- the minimum Aggregate
// needs (spec §4.3, §8: "Threshold Lagrange", "Testable Properties").
func collectShares(f *Federation, tx *txn.Transaction) ([][]coconut.PartialSignature, error) {
	p, err := f.params()
	if err != nil {
		return nil, err
	}
	services := f.services(p)
	byAuthority := make([][]coconut.PartialSignature, len(services))
	for i, svc := range services {
		sigs, err := svc.Process(tx)
		if err != nil {
			return nil, fmt.Errorf("authority rejected transaction: %w", err)
		}
		row := make([]coconut.PartialSignature, len(tx.Outputs))
		for _, s := range sigs {
			row[s.OutputIndex] = s.Share
		}
		byAuthority[i] = row
	}

	byOutput := txn.Transpose(byAuthority)
	for j, col := range byOutput {
		if len(col) > f.Threshold {
			byOutput[j] = col[:f.Threshold]
		}
	}
	return byOutput, nil
}

func runMint(cmd *cobra.Command, args []string) error {
	f, err := loadFederation(inputFile)
	if err != nil {
		return err
	}
	p, err := f.params()
	if err != nil {
		return err
	}

	secret, err := schema.GenerateTokenSecret(p, amount, rand.Reader)
	if err != nil {
		return err
	}
	out, outSecret, err := schema.NewOutput(p, secret, rand.Reader)
	if err != nil {
		return err
	}

	tx := txn.New()
	tx.AddDeposit(amount)
	_, outputBlinds, err := tx.ComputePedersens(nil, []uint64{amount}, rand.Reader)
	if err != nil {
		return err
	}
	if err := outSecret.Setup(p, out, outputBlinds[0], rand.Reader); err != nil {
		return err
	}
	commits, err := outSecret.ProofCommits(p, out)
	if err != nil {
		return err
	}
	hash := commits.Hash()
	outSecret.Finish(out, schema.SubChallenge(hash))
	tx.AddOutput(out, hash)

	if !tx.Check(p) {
		return fmt.Errorf("mint: transaction failed to balance")
	}

	shares, err := collectShares(f, tx)
	if err != nil {
		return err
	}
	token, err := outSecret.Unblind(shares[0])
	if err != nil {
		return err
	}

	if outputFile == "" {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		outputFile = filepath.Join(configDir, "token.cbor")
	}
	if err := saveWalletToken(outputFile, &WalletToken{Secret: *secret, Token: *token}); err != nil {
		return err
	}
	fmt.Printf("Minted a token worth %d, saved to: %s\n", amount, outputFile)
	return nil
}

func runSpend(cmd *cobra.Command, args []string) error {
	inputPaths, _ := cmd.Flags().GetStringSlice("inputs")
	outputAmounts, _ := cmd.Flags().GetUint64Slice("outputs")
	if len(inputPaths) == 0 || len(outputAmounts) == 0 {
		return fmt.Errorf("spend: at least one input and one output amount are required")
	}

	f, err := loadFederation(inputFile)
	if err != nil {
		return err
	}
	p, err := f.params()
	if err != nil {
		return err
	}

	tx := txn.New()

	var inputValues []uint64
	schemaInputs := make([]*schema.Input, len(inputPaths))
	inputBuilders := make([]*schema.InputSecret, len(inputPaths))
	for i, path := range inputPaths {
		wt, err := loadWalletToken(path)
		if err != nil {
			return fmt.Errorf("loading input %d: %w", i, err)
		}
		in, is, err := schema.NewInput(p, &f.AggregateKey, &wt.Token, &wt.Secret, rand.Reader)
		if err != nil {
			return fmt.Errorf("building input %d: %w", i, err)
		}
		schemaInputs[i] = in
		inputBuilders[i] = is
		inputValues = append(inputValues, wt.Secret.Value)
	}

	outputSecrets := make([]*schema.TokenSecret, len(outputAmounts))
	schemaOutputs := make([]*schema.Output, len(outputAmounts))
	outputBuilders := make([]*schema.OutputSecret, len(outputAmounts))
	for j, v := range outputAmounts {
		secret, err := schema.GenerateTokenSecret(p, v, rand.Reader)
		if err != nil {
			return err
		}
		out, os, err := schema.NewOutput(p, secret, rand.Reader)
		if err != nil {
			return err
		}
		outputSecrets[j] = secret
		schemaOutputs[j] = out
		outputBuilders[j] = os
	}

	inputBlinds, outputBlinds, err := tx.ComputePedersens(inputValues, outputAmounts, rand.Reader)
	if err != nil {
		return err
	}

	for i, in := range schemaInputs {
		if err := inputBuilders[i].Setup(p, in, inputBlinds[i], rand.Reader); err != nil {
			return err
		}
	}
	for j, out := range schemaOutputs {
		if err := outputBuilders[j].Setup(p, out, outputBlinds[j], rand.Reader); err != nil {
			return err
		}
	}

	inputHashes := make([][32]byte, len(schemaInputs))
	for i, in := range schemaInputs {
		commits, err := inputBuilders[i].ProofCommits(p, &f.AggregateKey, in)
		if err != nil {
			return err
		}
		inputHashes[i] = commits.Hash()
		tx.AddInput(in, inputHashes[i])
	}
	for j, out := range schemaOutputs {
		commits, err := outputBuilders[j].ProofCommits(p, out)
		if err != nil {
			return err
		}
		hash := commits.Hash()
		outputBuilders[j].Finish(out, schema.SubChallenge(hash))
		tx.AddOutput(out, hash)
	}

	challenge := tx.ComputeChallenge()
	for i, in := range schemaInputs {
		inputBuilders[i].Finish(in, challenge)
	}

	if !tx.Check(p) {
		return fmt.Errorf("spend: transaction failed to balance")
	}

	shares, err := collectShares(f, tx)
	if err != nil {
		return err
	}

	for j, os := range outputBuilders {
		token, err := os.Unblind(shares[j])
		if err != nil {
			return fmt.Errorf("unblinding output %d: %w", j, err)
		}
		path := fmt.Sprintf("%s.%d.cbor", outputFileOrDefault(), j)
		if err := saveWalletToken(path, &WalletToken{Secret: *outputSecrets[j], Token: *token}); err != nil {
			return err
		}
		fmt.Printf("Output %d worth %d saved to: %s\n", j, outputAmounts[j], path)
	}
	return nil
}

func outputFileOrDefault() string {
	if outputFile != "" {
		return outputFile
	}
	return filepath.Join(configDir, "spend-output")
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	f, err := loadFederation(inputFile)
	if err != nil {
		return err
	}
	p, err := f.params()
	if err != nil {
		return err
	}

	wt, err := loadWalletToken(outputFile)
	if err != nil {
		return err
	}

	in, is, err := schema.NewInput(p, &f.AggregateKey, &wt.Token, &wt.Secret, rand.Reader)
	if err != nil {
		return err
	}

	tx := txn.New()
	tx.AddWithdraw(wt.Secret.Value)
	inputBlinds, _, err := tx.ComputePedersens([]uint64{wt.Secret.Value}, nil, rand.Reader)
	if err != nil {
		return err
	}
	if err := is.Setup(p, in, inputBlinds[0], rand.Reader); err != nil {
		return err
	}
	commits, err := is.ProofCommits(p, &f.AggregateKey, in)
	if err != nil {
		return err
	}
	hash := commits.Hash()
	tx.AddInput(in, hash)
	challenge := tx.ComputeChallenge()
	is.Finish(in, challenge)

	if !tx.Check(p) {
		return fmt.Errorf("withdraw: transaction failed to balance")
	}
	if _, err := collectShares(f, tx); err != nil {
		return err
	}

	fmt.Printf("Withdrew %d out of the federation\n", wt.Secret.Value)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	f, err := loadFederation(inputFile)
	if err != nil {
		return err
	}
	alpha, err := f.AggregateKey.Alpha.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Printf("Threshold: %d of %d authorities\n", f.Threshold, len(f.SecretShares))
	fmt.Printf("Aggregate verify key alpha: %s\n", hex.EncodeToString(alpha))
	if verbose {
		for _, vks := range f.VerifyShares {
			beta, err := vks.Alpha.MarshalBinary()
			if err != nil {
				return err
			}
			fmt.Printf("  authority %d alpha share: %s\n", vks.Index, hex.EncodeToString(beta))
		}
	}
	return nil
}
