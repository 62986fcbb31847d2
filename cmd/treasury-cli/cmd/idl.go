// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/treasury"
)

var idlCmd = &cobra.Command{
	Use:   "idl",
	Short: "Print the treasury instruction schema as JSON",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		b, err := treasury.NewIDL(Version, treasury.ID).JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}
