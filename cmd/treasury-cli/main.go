// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "treasury-cli" drives the treasury and token programs against a local
// ledger.
package main

import (
	"context"
	"os"

	"github.com/lssa-labs/treasuryvm/cmd/treasury-cli/cmd"
	"github.com/lssa-labs/treasuryvm/utils"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		utils.Outf("{{red}}treasury-cli exited with error:{{/}} %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
