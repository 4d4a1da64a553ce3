package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	donation_config "github.com/solfund/solfund-server/pkg/donation/config"
)

// flagToEnv binds each persistent flag to the environment variable the
// server reads for the same setting.
var flagToEnv = map[string]string{
	"network":            donation_config.NetworkConfigEnvName,
	"program":            donation_config.ProgramIdConfigEnvName,
	"platform":           donation_config.PlatformWalletConfigEnvName,
	"idl":                donation_config.IdlPathConfigEnvName,
	"blockhash-retries":  donation_config.BlockhashRetriesConfigEnvName,
	"compute-unit-limit": donation_config.ComputeUnitLimitConfigEnvName,
	"compute-unit-price": donation_config.ComputeUnitPriceConfigEnvName,
	"debug":              donation_config.DebugConfigEnvName,
}

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "solfund",
	Short: "Build and send direct donations to a creator",
	Long: `solfund encodes donate instructions for the direct donation program and
submits signed donations to a Solana cluster.

Flags fall back to DONATION_SERVICE_* environment variables, which may also be
provided through a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
}

func init() {
	// A missing .env file is fine
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.String("network", "", "cluster moniker (devnet, testnet, mainnet-beta, localnet) or an RPC endpoint")
	flags.String("program", "", "direct donation program id")
	flags.String("platform", "", "platform fee wallet")
	flags.String("idl", "", "path to the program IDL, defaults to the bundled IDL")
	flags.Uint64("blockhash-retries", 0, "times to rebuild a donation after its blockhash expires")
	flags.Uint64("compute-unit-limit", 0, "compute unit limit for the priority fee, 0 leaves it unset")
	flags.Uint64("compute-unit-price", 0, "priority fee in micro lamports per compute unit, 0 disables it")
	flags.Bool("debug", false, "enable debug logging")

	for flag, envName := range flagToEnv {
		_ = viper.BindPFlag(flag, flags.Lookup(flag))
		_ = viper.BindEnv(flag, envName)
	}
}

// loadSettings resolves flags, falling back to the environment and then to
// defaults.
func loadSettings(ctx context.Context) (*donation_config.Settings, error) {
	return donation_config.Load(ctx, donation_config.WithOverrides(&donation_config.Overrides{
		Network:          viper.GetString("network"),
		ProgramId:        viper.GetString("program"),
		PlatformWallet:   viper.GetString("platform"),
		IdlPath:          viper.GetString("idl"),
		BlockhashRetries: viper.GetUint64("blockhash-retries"),
		ComputeUnitLimit: viper.GetUint64("compute-unit-limit"),
		ComputeUnitPrice: viper.GetUint64("compute-unit-price"),
		Debug:            viper.GetBool("debug"),
	}))
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}
