// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chain"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
	"github.com/lssa-labs/treasuryvm/storage"
	"github.com/lssa-labs/treasuryvm/token"
	"github.com/lssa-labs/treasuryvm/treasury"
	"github.com/lssa-labs/treasuryvm/utils"
)

var multisigCmd = &cobra.Command{
	Use: "multisig",
	RunE: func(*cobra.Command, []string) error {
		return ErrInvalidArgs
	},
}

func parseThreshold(v int) (uint8, error) {
	if v < 1 || v > int(consts.MaxUint8) {
		return 0, fmt.Errorf("%w: threshold %d", ErrInvalidArgs, v)
	}
	return uint8(v), nil
}

func multisigState() (*treasury.MultisigState, error) {
	acct, err := storage.GetAccountFromDB(handler.DB(), handler.Treasury().Addresses().MultisigState())
	if err != nil {
		return nil, err
	}
	if !acct.Claimed() {
		return nil, ErrNoMultisig
	}
	return treasury.ParseMultisigState(acct.Data)
}

// submitPrivileged collects the approvers' signatures over [ix] and submits
// it with [accounts].
func submitPrivileged(ctx context.Context, ix treasury.Instruction, accounts []codec.Address) error {
	if len(approvers) == 0 {
		return ErrMissingApproval
	}
	keys, err := handler.Keys(approvers)
	if err != nil {
		return err
	}
	instruction := treasury.Encode(ix)
	payload := treasury.ApprovalMessage(treasury.ID, handler.Treasury().Addresses().MultisigState(), instruction)
	approvals := make([]*auth.Witness, len(keys))
	for i, k := range keys {
		approvals[i] = k.Sign(payload)
	}
	msg := &chain.Message{
		Program:     treasury.ID,
		Accounts:    accounts,
		Instruction: instruction,
	}
	_, err = handler.Submit(ctx, msg, nil, approvals)
	return err
}

var createMultisigCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the M-of-N multisig",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t, err := parseThreshold(threshold)
		if err != nil {
			return err
		}
		pks := make([]ed25519.PublicKey, len(members))
		for i, m := range members {
			pks[i], err = ed25519.HexToPublicKey(m)
			if err != nil {
				return err
			}
		}
		addrs := handler.Treasury().Addresses()
		msg := &chain.Message{
			Program:  treasury.ID,
			Accounts: []codec.Address{addrs.MultisigState()},
			Instruction: treasury.Encode(&treasury.CreateMultisig{
				Threshold:    t,
				Members:      pks,
				TokenProgram: token.ID,
			}),
		}
		if _, err := handler.Submit(cmd.Context(), msg, nil, nil); err != nil {
			return err
		}
		handler.Session().Multisig = addrs.MultisigState().String()
		utils.Outf("{{yellow}}multisig:{{/}} %s {{yellow}}vault:{{/}} %s\n", addrs.MultisigState(), addrs.MultisigVault())
		return nil
	},
}

var executeMultisigCmd = &cobra.Command{
	Use:   "execute [recipient] [amount]",
	Short: "Pay from the multisig vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipient, err := codec.StringToAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if ok, err := confirm(fmt.Sprintf("pay %d to %s", amount, recipient)); !ok || err != nil {
			return err
		}
		st, err := multisigState()
		if err != nil {
			return err
		}
		addrs := handler.Treasury().Addresses()
		return submitPrivileged(
			cmd.Context(),
			&treasury.Execute{Recipient: recipient, Amount: amount, Nonce: st.Nonce},
			[]codec.Address{addrs.MultisigState(), st.Vault, recipient},
		)
	},
}

var addMemberCmd = &cobra.Command{
	Use:   "add-member [public key]",
	Short: "Add a multisig member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		member, err := ed25519.HexToPublicKey(args[0])
		if err != nil {
			return err
		}
		st, err := multisigState()
		if err != nil {
			return err
		}
		return submitPrivileged(
			cmd.Context(),
			&treasury.AddMember{Member: member, Nonce: st.Nonce},
			[]codec.Address{handler.Treasury().Addresses().MultisigState()},
		)
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove-member [public key]",
	Short: "Remove a multisig member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		member, err := ed25519.HexToPublicKey(args[0])
		if err != nil {
			return err
		}
		if ok, err := confirm("remove member " + args[0]); !ok || err != nil {
			return err
		}
		st, err := multisigState()
		if err != nil {
			return err
		}
		return submitPrivileged(
			cmd.Context(),
			&treasury.RemoveMember{Member: member, Nonce: st.Nonce},
			[]codec.Address{handler.Treasury().Addresses().MultisigState()},
		)
	},
}

var setThresholdCmd = &cobra.Command{
	Use:   "set-threshold [threshold]",
	Short: "Change the number of approvals required",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
		}
		t, err := parseThreshold(v)
		if err != nil {
			return err
		}
		if ok, err := confirm(fmt.Sprintf("set threshold to %d", t)); !ok || err != nil {
			return err
		}
		st, err := multisigState()
		if err != nil {
			return err
		}
		return submitPrivileged(
			cmd.Context(),
			&treasury.ChangeThreshold{Threshold: t, Nonce: st.Nonce},
			[]codec.Address{handler.Treasury().Addresses().MultisigState()},
		)
	},
}
