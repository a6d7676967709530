// Command timechain-cli is the operator/developer front door to a
// node's persisted chain: balance and nonce lookups, supply status, and
// the current tip, built on the same cobra command-tree layout the
// teacher's CLI uses.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/timechain-project/timechain-core/internal/config"
	"github.com/timechain-project/timechain-core/pkg/chainstore"
	"github.com/timechain-project/timechain-core/pkg/economics"
	"github.com/timechain-project/timechain-core/pkg/genesis"
	"github.com/timechain-project/timechain-core/pkg/primitives"
	"github.com/timechain-project/timechain-core/pkg/timechain"
	"github.com/timechain-project/timechain-core/pkg/zkadmission"
)

var chainFile string

func loadChain() (*timechain.Timechain, error) {
	oracle := zkadmission.NewOracle(0)
	store := chainstore.New(chainFile)
	blocks, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading chain file: %w", err)
	}
	if len(blocks) == 0 {
		return timechain.New(genesis.Block, genesis.Anchor, oracle)
	}
	return timechain.Load(blocks, genesis.Anchor, oracle)
}

func parseAddress(s string) (primitives.Address, error) {
	raw, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return primitives.Address{}, fmt.Errorf("invalid address hex: %w", err)
	}
	if len(raw) != primitives.AddressSize {
		return primitives.Address{}, fmt.Errorf("address must be %d bytes, got %d", primitives.AddressSize, len(raw))
	}
	var addr primitives.Address
	copy(addr[:], raw)
	return addr, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "timechain-cli",
		Short: "Inspect and interact with a timechain node's persisted chain",
	}
	rootCmd.PersistentFlags().StringVar(&chainFile, "chain-file", config.Default().ChainFile, "Path to the persisted chain file")

	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(nonceCmd())
	rootCmd.AddCommand(supplyCmd())
	rootCmd.AddCommand(tipCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print a summary of the persisted chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := loadChain()
			if err != nil {
				return err
			}
			status := tc.GetStatus()
			fmt.Printf("height:           %v\n", status["height"])
			fmt.Printf("difficulty:       %v\n", status["difficulty"])
			fmt.Printf("tip hash:         %v\n", status["tipHash"])
			fmt.Printf("supply mined:     %v\n", economics.FormatAmount(status["suppliedMined"].(uint64)))
			fmt.Printf("supply remaining: %v\n", economics.FormatAmount(status["supplyRemaining"].(uint64)))
			fmt.Printf("supply percent:   %.4f%%\n", status["supplyPercent"])
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address-hex>",
		Short: "Look up an address's balance at the current tip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			tc, err := loadChain()
			if err != nil {
				return err
			}
			fmt.Println(economics.FormatAmount(tc.Balance(addr)))
			return nil
		},
	}
}

func nonceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nonce <address-hex>",
		Short: "Look up an address's next expected nonce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			tc, err := loadChain()
			if err != nil {
				return err
			}
			fmt.Println(tc.Nonce(addr))
			return nil
		},
	}
}

func supplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "supply",
		Short: "Print mined, remaining, and percent-of-cap supply figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := loadChain()
			if err != nil {
				return err
			}
			mined, remaining, percent := tc.SupplyInfo()
			fmt.Printf("mined:     %s\n", economics.FormatAmount(mined))
			fmt.Printf("remaining: %s\n", economics.FormatAmount(remaining))
			fmt.Printf("percent:   %.4f%%\n", percent)
			return nil
		},
	}
}

func tipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print the current tip hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := loadChain()
			if err != nil {
				return err
			}
			hash, err := tc.TipHash()
			if err != nil {
				return err
			}
			fmt.Println(hash.Hex())
			return nil
		},
	}
}
