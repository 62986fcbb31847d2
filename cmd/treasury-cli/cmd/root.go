// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/config"
	"github.com/lssa-labs/treasuryvm/utils"
)

const (
	Version = "v0.1.0"

	defaultConfig = "treasury.json"
)

var (
	handler *Handler

	configPath   string
	dataDir      string
	logLevel     string
	keyAddr      string
	printMetrics bool
	assumeYes    bool

	// vault
	vaultSigners []string

	// multisig
	threshold int
	members   []string
	approvers []string

	rootCmd = &cobra.Command{
		Use:        "treasury-cli",
		Short:      "Treasury and multisig CLI over a local ledger",
		SuggestFor: []string{"treasury-cli", "treasurycli"},
		Version:    Version,
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(
		keyCmd,
		tokenCmd,
		vaultCmd,
		multisigCmd,
		statusCmd,
		idlCmd,
	)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to config file (defaults are used if missing)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "ledger directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&keyAddr, "key", "", "address of the signing key (defaults to the first key generated)")
	rootCmd.PersistentFlags().BoolVar(&printMetrics, "metrics", false, "print metrics before exiting")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd == idlCmd {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}ledger:{{/}} %s\n", cfg.DataDir)
		handler, err = NewHandler(cfg)
		return err
	}
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if handler == nil {
			return nil
		}
		if printMetrics {
			if err := handler.PrintMetrics(); err != nil {
				return err
			}
		}
		return handler.Close()
	}

	// key
	keyCmd.AddCommand(
		genKeyCmd,
		addressKeyCmd,
	)

	// token
	tokenCmd.AddCommand(
		newTokenCmd,
		transferTokenCmd,
	)

	// vault
	createVaultCmd.PersistentFlags().StringSliceVar(
		&vaultSigners,
		"signers",
		nil,
		"addresses allowed to send from vaults (defaults to the signing key)",
	)
	vaultCmd.AddCommand(
		createVaultCmd,
		sendVaultCmd,
		depositVaultCmd,
	)

	// multisig
	createMultisigCmd.PersistentFlags().IntVar(&threshold, "threshold", 1, "approvals required")
	createMultisigCmd.PersistentFlags().StringSliceVar(&members, "members", nil, "member public keys")
	for _, c := range []*cobra.Command{executeMultisigCmd, addMemberCmd, removeMemberCmd, setThresholdCmd} {
		c.PersistentFlags().StringSliceVar(&approvers, "approvers", nil, "addresses of the member keys approving")
	}
	multisigCmd.AddCommand(
		createMultisigCmd,
		executeMultisigCmd,
		addMemberCmd,
		removeMemberCmd,
		setThresholdCmd,
	)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if len(dataDir) > 0 {
		cfg.DataDir = dataDir
	}
	if len(logLevel) > 0 {
		cfg.LogLevel, err = logging.ToLevel(logLevel)
		if err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Verify()
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
