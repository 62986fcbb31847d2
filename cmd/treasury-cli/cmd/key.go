// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/utils"
)

var keyCmd = &cobra.Command{
	Use: "key",
	RunE: func(*cobra.Command, []string) error {
		return ErrInvalidArgs
	},
}

var genKeyCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an ed25519 key and remember it in the session",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		factory, err := handler.GenerateKey()
		if err != nil {
			return err
		}
		utils.Outf(
			"{{green}}created key{{/}} {{yellow}}address:{{/}} %s {{yellow}}public key:{{/}} %s\n",
			factory.Address(),
			factory.PublicKey(),
		)
		return nil
	},
}

var addressKeyCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address and public key of the signing key",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		factory, err := handler.Key(keyAddr)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}address:{{/}} %s\n", factory.Address())
		utils.Outf("{{yellow}}public key:{{/}} %s\n", factory.PublicKey())
		return nil
	},
}
