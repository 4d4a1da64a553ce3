package main

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/solfund/solfund-server/pkg/donation/wallet"
	"github.com/solfund/solfund-server/pkg/sol"
	"github.com/solfund/solfund-server/pkg/solana"
)

// newClient is replaced in tests
var newClient = func(env solana.Environment) solana.Client {
	return solana.New(string(env))
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the SOL balance of an address or keypair",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Context())
		if err != nil {
			return err
		}

		account, err := resolveAccount(cmd, args)
		if err != nil {
			return err
		}

		balance, err := newClient(settings.Environment).GetBalance(account, solana.CommitmentConfirmed)
		if errors.Is(err, solana.ErrNoBalance) {
			balance = 0
		} else if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s SOL\n", sol.StrFromLamports(balance))
		return nil
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop [address]",
	Short: "Request test SOL from a devnet, testnet or local faucet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Context())
		if err != nil {
			return err
		}
		if settings.Environment == solana.EnvironmentProd {
			return errors.New("airdrops are not available on mainnet-beta")
		}

		account, err := resolveAccount(cmd, args)
		if err != nil {
			return err
		}
		lamports, err := sol.StrToLamports(mustGetString(cmd, "amount"))
		if err != nil {
			return err
		}

		sig, err := newClient(settings.Environment).RequestAirdrop(account, lamports, solana.CommitmentConfirmed)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "requested %s SOL: %s\n", sol.StrFromLamports(lamports), sig.String())
		return nil
	},
}

// resolveAccount takes the address argument, falling back to the public key
// of the --keypair file.
func resolveAccount(cmd *cobra.Command, args []string) (ed25519.PublicKey, error) {
	if len(args) == 1 {
		account, err := solana.ParsePublicKey(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "invalid address")
		}
		return account, nil
	}

	path := mustGetString(cmd, "keypair")
	if path == "" {
		return nil, errors.New("an address or --keypair is required")
	}
	signer, err := wallet.LoadKeypairFile(path)
	if err != nil {
		return nil, err
	}
	return signer.PublicKey(), nil
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(airdropCmd)

	balanceCmd.Flags().String("keypair", "", "path to a JSON keypair file, used when no address is given")
	airdropCmd.Flags().String("keypair", "", "path to a JSON keypair file, used when no address is given")
	airdropCmd.Flags().String("amount", "1", "amount of SOL to request")
}
