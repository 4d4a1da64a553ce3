package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/solfund/solfund-server/pkg/donation/transaction"
	"github.com/solfund/solfund-server/pkg/donation/wallet"
	"github.com/solfund/solfund-server/pkg/sol"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

var donateCmd = &cobra.Command{
	Use:   "donate",
	Short: "Sign and send a donation from a local keypair",
	Long: `Build a donation from the keypair's wallet to a creator, sign it locally,
submit it with preflight checks and wait for confirmation. The creator receives
the amount and the platform wallet receives a 1% fee on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Context())
		if err != nil {
			return err
		}

		signer, err := wallet.LoadKeypairFile(mustGetString(cmd, "keypair"))
		if err != nil {
			return err
		}

		amount, err := sol.StrToLamports(mustGetString(cmd, "amount"))
		if err != nil {
			return err
		}
		creator, err := solana.ParsePublicKey(mustGetString(cmd, "creator"))
		if err != nil {
			return errors.Wrap(err, "invalid creator")
		}
		total, err := directdonation.TotalCost(amount)
		if err != nil {
			return err
		}

		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		submitter := transaction.NewSubmitter(
			newClient(settings.Environment),
			settings.IDL,
			transaction.WithBlockhashRetries(settings.BlockhashRetries),
			transaction.WithPriorityFee(settings.ComputeUnitLimit, settings.ComputeUnitPrice),
		)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "sending %s SOL to %s (total cost %s SOL)\n",
			sol.StrFromLamports(amount),
			base58.Encode(creator),
			sol.StrFromLamports(total),
		)

		sig, err := submitter.SendDonation(ctx, &transaction.DonationPayload{
			Amount:   amount,
			Donor:    signer.PublicKey(),
			Creator:  creator,
			Platform: settings.Platform,
			Program:  settings.Program,
			Memo:     mustGetString(cmd, "memo"),
		}, signer)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "confirmed: %s\n", sig.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(donateCmd)

	donateCmd.Flags().String("keypair", "", "path to a JSON keypair file, as written by solana-keygen")
	donateCmd.Flags().String("creator", "", "creator wallet address")
	donateCmd.Flags().String("amount", "", "donation amount in SOL, as received by the creator")
	donateCmd.Flags().String("memo", "", "optional memo attached to the donation")
	donateCmd.Flags().Duration("timeout", time.Minute, "how long to wait for confirmation")
	_ = donateCmd.MarkFlagRequired("keypair")
	_ = donateCmd.MarkFlagRequired("creator")
	_ = donateCmd.MarkFlagRequired("amount")
}
