// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/chain"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/token"
	"github.com/lssa-labs/treasuryvm/utils"
)

var tokenCmd = &cobra.Command{
	Use: "token",
	RunE: func(*cobra.Command, []string) error {
		return ErrInvalidArgs
	},
}

// definitionAddress picks a fresh definition account for a token [creator]
// names [name].
func definitionAddress(creator codec.Address, name string) codec.Address {
	b := make([]byte, 0, codec.AddressLen+len(name))
	b = append(b, creator[:]...)
	b = append(b, name...)
	return codec.Address(hashing.ComputeHash256Array(b))
}

func parseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q: %w", ErrInvalidArgs, s, err)
	}
	return amount, nil
}

var newTokenCmd = &cobra.Command{
	Use:   "new [name] [supply]",
	Short: "Create a token and mint its supply to the signing key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := handler.Key(keyAddr)
		if err != nil {
			return err
		}
		supply, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		ix, err := token.NewDefinition(args[0], supply)
		if err != nil {
			return err
		}
		definition := definitionAddress(holder.Address(), args[0])
		msg := &chain.Message{
			Program:     token.ID,
			Accounts:    []codec.Address{definition, holder.Address()},
			Instruction: token.Encode(ix),
		}
		if _, err := handler.Submit(cmd.Context(), msg, signers(holder), nil); err != nil {
			return err
		}
		handler.Session().AddToken(args[0], definition)
		utils.Outf("{{yellow}}token %s definition:{{/}} %s\n", args[0], definition)
		return nil
	},
}

var transferTokenCmd = &cobra.Command{
	Use:   "transfer [recipient] [amount]",
	Short: "Transfer tokens from the signing key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sender, err := handler.Key(keyAddr)
		if err != nil {
			return err
		}
		recipient, err := codec.StringToAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		msg := &chain.Message{
			Program:     token.ID,
			Accounts:    []codec.Address{sender.Address(), recipient},
			Instruction: token.Encode(&token.Transfer{Amount: amount}),
		}
		_, err = handler.Submit(cmd.Context(), msg, signers(sender), nil)
		return err
	},
}
