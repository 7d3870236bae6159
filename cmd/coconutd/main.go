// Command coconutd is a demo CLI for the Coconut threshold cash protocol:
// it stands up a local federation, mints a token against it, and spends or
// withdraws it, keeping the federation and its tokens in CBOR files and
// printing verify-key alpha points as hex (spec §6: "External Interfaces").
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configDir string
	verbose   bool

	threshold  int
	parties    int
	amount     uint64
	inputFile  string
	outputFile string

	rootCmd = &cobra.Command{
		Use:   "coconutd",
		Short: "Demo CLI for the Coconut threshold cash protocol",
		Long: `coconutd drives a local Coconut federation end to end: generate threshold
keys, mint a deposit into a token, split or spend it against the federation,
and withdraw it back out.`,
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate a threshold federation keypair",
		RunE:  runKeygen,
	}

	mintCmd = &cobra.Command{
		Use:   "mint",
		Short: "Mint a token by depositing into the federation",
		RunE:  runMint,
	}

	spendCmd = &cobra.Command{
		Use:   "spend",
		Short: "Spend input tokens into new output tokens",
		RunE:  runSpend,
	}

	withdrawCmd = &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw a token out of the federation",
		RunE:  runWithdraw,
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Display federation key information",
		RunE:  runInfo,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "d", "./coconut-data", "Federation key directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	keygenCmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Threshold value (required)")
	keygenCmd.Flags().IntVarP(&parties, "parties", "n", 0, "Total number of authorities (required)")
	keygenCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the federation bundle")
	keygenCmd.MarkFlagRequired("threshold")
	keygenCmd.MarkFlagRequired("parties")

	mintCmd.Flags().StringVarP(&inputFile, "federation", "f", "", "Federation bundle file (required)")
	mintCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to deposit (required)")
	mintCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the minted token secret")
	mintCmd.MarkFlagRequired("federation")
	mintCmd.MarkFlagRequired("amount")

	spendCmd.Flags().StringVarP(&inputFile, "federation", "f", "", "Federation bundle file (required)")
	spendCmd.Flags().StringSliceP("inputs", "i", nil, "Input token secret files (required)")
	spendCmd.Flags().Uint64SliceP("outputs", "s", nil, "Output amounts to split into (required)")
	spendCmd.MarkFlagRequired("federation")
	spendCmd.MarkFlagRequired("inputs")
	spendCmd.MarkFlagRequired("outputs")

	withdrawCmd.Flags().StringVarP(&inputFile, "federation", "f", "", "Federation bundle file (required)")
	withdrawCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Input token secret file (required)")
	withdrawCmd.MarkFlagRequired("federation")
	withdrawCmd.MarkFlagRequired("output")

	infoCmd.Flags().StringVarP(&inputFile, "federation", "f", "", "Federation bundle file (required)")
	infoCmd.MarkFlagRequired("federation")

	rootCmd.AddCommand(keygenCmd, mintCmd, spendCmd, withdrawCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
