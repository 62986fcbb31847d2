// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/storage"
	"github.com/lssa-labs/treasuryvm/token"
	"github.com/lssa-labs/treasuryvm/treasury"
	"github.com/lssa-labs/treasuryvm/utils"
)

var statusCmd = &cobra.Command{
	Use:   "status [address]",
	Short: "Print an account (the signing key's when no address is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var addr codec.Address
		if len(args) == 1 {
			var err error
			addr, err = codec.StringToAddress(args[0])
			if err != nil {
				return err
			}
		} else {
			factory, err := handler.Key(keyAddr)
			if err != nil {
				return err
			}
			addr = factory.Address()
		}
		acct, err := storage.GetAccountFromDB(handler.DB(), addr)
		if err != nil {
			return err
		}
		printAccount(addr, acct)
		return nil
	},
}

func printAccount(addr codec.Address, acct *account.Account) {
	utils.Outf("{{yellow}}account:{{/}} %s\n", addr)
	if !acct.Claimed() {
		utils.Outf("{{cyan}}unclaimed{{/}} nonce=%d\n", acct.Nonce)
		return
	}
	utils.Outf("{{yellow}}owner:{{/}} %s {{yellow}}balance:{{/}} %d {{yellow}}nonce:{{/}} %d {{yellow}}data:{{/}} %d bytes\n",
		acct.Owner, acct.Balance, acct.Nonce, len(acct.Data))

	addrs := handler.Treasury().Addresses()
	switch {
	case acct.Owner == token.ID:
		if h, err := token.ParseHolding(acct.Data); err == nil {
			utils.Outf("{{cyan}}holding{{/}} definition=%s balance=%d\n", h.Definition, h.Balance)
			return
		}
		if d, err := token.ParseDefinition(acct.Data); err == nil {
			utils.Outf("{{cyan}}definition{{/}} name=%s supply=%d\n", strings.TrimRight(string(d.Name[:]), "\x00"), d.TotalSupply)
		}
	case addr == addrs.TreasuryState():
		if st, err := treasury.ParseTreasuryState(acct.Data); err == nil {
			utils.Outf("{{cyan}}treasury{{/}} vaults=%d signers=%v\n", st.VaultCount, st.AuthorizedAccounts)
		}
	case addr == addrs.MultisigState():
		if st, err := treasury.ParseMultisigState(acct.Data); err == nil {
			utils.Outf("{{cyan}}multisig{{/}} threshold=%d/%d nonce=%d vault=%s\n",
				st.Threshold, len(st.Members), st.Nonce, st.Vault)
			for _, m := range st.Members {
				utils.Outf("  member %s\n", m)
			}
		}
	}
}
