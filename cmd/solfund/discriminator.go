package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

var discriminatorCmd = &cobra.Command{
	Use:   "discriminator [instruction]",
	Short: "Print the 8 byte discriminator for a program instruction",
	Long: `Print the discriminator for an instruction, defaulting to donate. The
discriminator declared by the loaded IDL is shown next to the one derived from
the instruction name, so a stale IDL is easy to spot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Context())
		if err != nil {
			return err
		}

		name := "donate"
		if len(args) > 0 {
			name = args[0]
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "derived: %s\n", hex.EncodeToString(directdonation.AnchorDiscriminator(name)))

		descriptor := settings.IDL.Instruction(name)
		if descriptor == nil {
			fmt.Fprintln(w, "idl:     not declared")
			return nil
		}
		fmt.Fprintf(w, "idl:     %s\n", hex.EncodeToString(descriptor.Discriminator))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discriminatorCmd)
}
