// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chain"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/token"
	"github.com/lssa-labs/treasuryvm/treasury"
	"github.com/lssa-labs/treasuryvm/utils"
)

var vaultCmd = &cobra.Command{
	Use: "vault",
	RunE: func(*cobra.Command, []string) error {
		return ErrInvalidArgs
	},
}

func signers(factories ...*auth.ED25519Factory) []*auth.ED25519Factory {
	return factories
}

var createVaultCmd = &cobra.Command{
	Use:   "create [name] [supply]",
	Short: "Create a token whose supply is minted into a treasury vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		supply, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		authorized := make([]codec.Address, 0, len(vaultSigners))
		for _, s := range vaultSigners {
			addr, err := codec.StringToAddress(s)
			if err != nil {
				return err
			}
			authorized = append(authorized, addr)
		}
		if len(authorized) == 0 {
			creator, err := handler.Key(keyAddr)
			if err != nil {
				return err
			}
			authorized = append(authorized, creator.Address())
		}

		addrs := handler.Treasury().Addresses()
		definition := definitionAddress(addrs.TreasuryState(), args[0])
		vault := addrs.Vault(definition)
		msg := &chain.Message{
			Program:  treasury.ID,
			Accounts: []codec.Address{addrs.TreasuryState(), definition, vault},
			Instruction: treasury.Encode(&treasury.CreateVault{
				TokenName:         args[0],
				InitialSupply:     supply,
				TokenProgram:      token.ID,
				AuthorizedSigners: authorized,
			}),
		}
		if _, err := handler.Submit(cmd.Context(), msg, nil, nil); err != nil {
			return err
		}
		handler.Session().AddToken(args[0], definition)
		utils.Outf("{{yellow}}token %s definition:{{/}} %s {{yellow}}vault:{{/}} %s\n", args[0], definition, vault)
		return nil
	},
}

var sendVaultCmd = &cobra.Command{
	Use:   "send [token] [recipient] [amount]",
	Short: "Send tokens from a treasury vault as an authorized signer",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := handler.Key(keyAddr)
		if err != nil {
			return err
		}
		definition, err := handler.Token(args[0])
		if err != nil {
			return err
		}
		recipient, err := codec.StringToAddress(args[1])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		if ok, err := confirm(fmt.Sprintf("send %d %s to %s", amount, args[0], recipient)); !ok || err != nil {
			return err
		}
		addrs := handler.Treasury().Addresses()
		msg := &chain.Message{
			Program:     treasury.ID,
			Accounts:    []codec.Address{addrs.TreasuryState(), addrs.Vault(definition), recipient, signer.Address()},
			Instruction: treasury.Encode(&treasury.Send{Amount: amount, TokenProgram: token.ID}),
		}
		_, err = handler.Submit(cmd.Context(), msg, signers(signer), nil)
		return err
	},
}

var depositVaultCmd = &cobra.Command{
	Use:   "deposit [token] [amount]",
	Short: "Deposit tokens held by the signing key into a treasury vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sender, err := handler.Key(keyAddr)
		if err != nil {
			return err
		}
		definition, err := handler.Token(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		addrs := handler.Treasury().Addresses()
		msg := &chain.Message{
			Program:     treasury.ID,
			Accounts:    []codec.Address{addrs.TreasuryState(), sender.Address(), addrs.Vault(definition)},
			Instruction: treasury.Encode(&treasury.Deposit{Amount: amount, TokenProgram: token.ID}),
		}
		_, err = handler.Submit(cmd.Context(), msg, signers(sender), nil)
		return err
	},
}
