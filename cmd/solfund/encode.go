package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/solfund/solfund-server/pkg/sol"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the donate instruction for a donation",
	Long: `Encode the donate instruction without signing or sending anything. The
instruction data is printed as hex along with the ordered account list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Context())
		if err != nil {
			return err
		}

		amount, err := sol.StrToLamports(mustGetString(cmd, "amount"))
		if err != nil {
			return err
		}
		donor, err := solana.ParsePublicKey(mustGetString(cmd, "donor"))
		if err != nil {
			return errors.Wrap(err, "invalid donor")
		}
		creator, err := solana.ParsePublicKey(mustGetString(cmd, "creator"))
		if err != nil {
			return errors.Wrap(err, "invalid creator")
		}

		ix, err := directdonation.NewDonateInstruction(
			settings.Program,
			settings.IDL,
			&directdonation.DonateInstructionAccounts{
				Donor:    donor,
				Creator:  creator,
				Platform: settings.Platform,
			},
			&directdonation.DonateInstructionArgs{
				Amount: amount,
			},
		)
		if err != nil {
			return err
		}

		return printInstruction(cmd.OutOrStdout(), ix, amount)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().String("amount", "", "donation amount in SOL, as received by the creator")
	encodeCmd.Flags().String("donor", "", "donor wallet address")
	encodeCmd.Flags().String("creator", "", "creator wallet address")
	_ = encodeCmd.MarkFlagRequired("amount")
	_ = encodeCmd.MarkFlagRequired("donor")
	_ = encodeCmd.MarkFlagRequired("creator")
}

var accountLabels = []string{"donor", "creator", "platform", "system_program"}

func printInstruction(w io.Writer, ix solana.Instruction, amount uint64) error {
	total, err := directdonation.TotalCost(amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "program:      %s\n", base58.Encode(ix.Program))
	fmt.Fprintf(w, "data:         %s\n", hex.EncodeToString(ix.Data))
	fmt.Fprintf(w, "amount:       %s SOL\n", sol.StrFromLamports(amount))
	fmt.Fprintf(w, "platform fee: %s SOL\n", sol.StrFromLamports(directdonation.PlatformFee(amount)))
	fmt.Fprintf(w, "total cost:   %s SOL\n", sol.StrFromLamports(total))
	fmt.Fprintln(w, "accounts:")
	for i, account := range ix.Accounts {
		label := "unknown"
		if i < len(accountLabels) {
			label = accountLabels[i]
		}
		fmt.Fprintf(w, "  %d %-15s %s%s%s\n",
			i,
			label,
			base58.Encode(account.PublicKey),
			flagIf(account.IsWritable, " writable"),
			flagIf(account.IsSigner, " signer"),
		)
	}
	return nil
}

func flagIf(set bool, label string) string {
	if set {
		return label
	}
	return ""
}

func mustGetString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}
	return value
}
