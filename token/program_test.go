// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/faults"
	"github.com/lssa-labs/treasuryvm/program"
)

var definitionID = codec.Address{0xd}

func holdingAccount(id codec.Address, def codec.Address, balance uint64, authorized bool) account.WithMeta {
	return account.WithMeta{
		ID:           id,
		IsAuthorized: authorized,
		Account: account.Account{
			Owner: ID,
			Data:  (&Holding{Definition: def, Balance: balance}).Bytes(),
		},
	}
}

func execute(t *testing.T, ix Instruction, accounts ...account.WithMeta) (*program.Output, error) {
	t.Helper()
	return New().Execute(context.Background(), &program.Invocation{
		Self:        ID,
		Accounts:    accounts,
		Instruction: Encode(ix),
	})
}

func TestNewFungibleDefinition(t *testing.T) {
	require := require.New(t)

	ix, err := NewDefinition("GOLD", 1_000)
	require.NoError(err)
	def := account.WithMeta{ID: definitionID}
	holding := account.WithMeta{ID: codec.Address{0xa}, IsAuthorized: true}

	out, err := execute(t, ix, def, holding)
	require.NoError(err)
	require.Len(out.PostStates, 2)
	require.True(out.PostStates[0].Claim)
	require.True(out.PostStates[1].Claim)
	require.NoError(account.ValidateOutput(ID, []account.WithMeta{def, holding}, out.PostStates))

	d, err := ParseDefinition(out.PostStates[0].Account.Data)
	require.NoError(err)
	require.Equal(uint64(1_000), d.TotalSupply)
	require.Equal("GOLD", string(d.Name[:4]))

	h, err := ParseHolding(out.PostStates[1].Account.Data)
	require.NoError(err)
	require.Equal(definitionID, h.Definition)
	require.Equal(uint64(1_000), h.Balance)

	gotDef, err := HoldingDefinition(out.PostStates[1].Account.Data)
	require.NoError(err)
	require.Equal(definitionID, gotDef)
}

func TestNewFungibleDefinitionErrors(t *testing.T) {
	ix := &NewFungibleDefinition{TotalSupply: 1}
	fresh := account.WithMeta{ID: codec.Address{0xa}, IsAuthorized: true}

	tests := []struct {
		name     string
		accounts []account.WithMeta
		err      error
		kind     faults.Kind
	}{
		{
			name:     "wrong account count",
			accounts: []account.WithMeta{fresh},
			err:      ErrWrongAccountCount,
			kind:     faults.Resource,
		},
		{
			name:     "definition exists",
			accounts: []account.WithMeta{holdingAccount(definitionID, definitionID, 0, false), fresh},
			err:      ErrAlreadyInitialized,
			kind:     faults.State,
		},
		{
			name:     "holding exists",
			accounts: []account.WithMeta{{ID: definitionID}, holdingAccount(fresh.ID, definitionID, 0, true)},
			err:      ErrAlreadyInitialized,
			kind:     faults.State,
		},
		{
			name:     "holding not authorized",
			accounts: []account.WithMeta{{ID: definitionID}, {ID: fresh.ID}},
			err:      ErrNotAuthorized,
			kind:     faults.Authorization,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := execute(t, ix, tt.accounts...)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.kind, faults.KindOf(err))
		})
	}
}

func TestNewDefinitionNameTooLong(t *testing.T) {
	_, err := NewDefinition("TOOLONG", 1)
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestTransfer(t *testing.T) {
	require := require.New(t)

	sender := holdingAccount(codec.Address{1}, definitionID, 100, true)
	recipient := holdingAccount(codec.Address{2}, definitionID, 5, false)

	out, err := execute(t, &Transfer{Amount: 40}, sender, recipient)
	require.NoError(err)
	require.NoError(account.ValidateOutput(ID, []account.WithMeta{sender, recipient}, out.PostStates))
	require.False(out.PostStates[1].Claim)

	from, err := ParseHolding(out.PostStates[0].Account.Data)
	require.NoError(err)
	require.Equal(uint64(60), from.Balance)
	to, err := ParseHolding(out.PostStates[1].Account.Data)
	require.NoError(err)
	require.Equal(uint64(45), to.Balance)
}

func TestTransferClaimsRecipient(t *testing.T) {
	require := require.New(t)

	sender := holdingAccount(codec.Address{1}, definitionID, 100, true)
	recipient := account.WithMeta{ID: codec.Address{2}}

	out, err := execute(t, &Transfer{Amount: 100}, sender, recipient)
	require.NoError(err)
	require.True(out.PostStates[1].Claim)
	require.NoError(account.ValidateOutput(ID, []account.WithMeta{sender, recipient}, out.PostStates))

	to, err := ParseHolding(out.PostStates[1].Account.Data)
	require.NoError(err)
	require.Equal(definitionID, to.Definition)
	require.Equal(uint64(100), to.Balance)
}

func TestTransferErrors(t *testing.T) {
	sender := holdingAccount(codec.Address{1}, definitionID, 100, true)
	recipient := holdingAccount(codec.Address{2}, definitionID, 0, false)

	tests := []struct {
		name     string
		amount   uint64
		accounts []account.WithMeta
		err      error
		kind     faults.Kind
	}{
		{
			name:     "zero amount",
			amount:   0,
			accounts: []account.WithMeta{sender, recipient},
			err:      ErrZeroAmount,
			kind:     faults.Validation,
		},
		{
			name:     "sender not authorized",
			amount:   1,
			accounts: []account.WithMeta{holdingAccount(sender.ID, definitionID, 100, false), recipient},
			err:      ErrNotAuthorized,
			kind:     faults.Authorization,
		},
		{
			name:     "insufficient balance",
			amount:   101,
			accounts: []account.WithMeta{sender, recipient},
			err:      ErrInsufficientBalance,
			kind:     faults.Resource,
		},
		{
			name:     "definition mismatch",
			amount:   1,
			accounts: []account.WithMeta{sender, holdingAccount(recipient.ID, codec.Address{0xe}, 0, false)},
			err:      ErrDefinitionMismatch,
			kind:     faults.Validation,
		},
		{
			name:     "overflow",
			amount:   1,
			accounts: []account.WithMeta{sender, holdingAccount(recipient.ID, definitionID, math.MaxUint64, false)},
			err:      ErrBalanceOverflow,
			kind:     faults.Resource,
		},
		{
			name:     "sender is not a holding",
			amount:   1,
			accounts: []account.WithMeta{{ID: sender.ID, IsAuthorized: true}, recipient},
			err:      ErrInvalidHolding,
			kind:     faults.State,
		},
		{
			name:     "self transfer",
			amount:   1,
			accounts: []account.WithMeta{sender, sender},
			err:      ErrSelfTransfer,
			kind:     faults.Validation,
		},
		{
			name:     "wrong account count",
			amount:   1,
			accounts: []account.WithMeta{sender},
			err:      ErrWrongAccountCount,
			kind:     faults.Resource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := execute(t, &Transfer{Amount: tt.amount}, tt.accounts...)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.kind, faults.KindOf(err))
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	require := require.New(t)

	_, err := Decode([]byte{0x09})
	require.ErrorIs(err, ErrUnknownInstruction)

	_, err = Decode(append(Encode(&Transfer{Amount: 1}), 0x00))
	require.ErrorIs(err, codec.ErrExtraBytes)
	require.ErrorIs(err, ErrMalformedInstruction)

	_, err = Decode(nil)
	require.ErrorIs(err, ErrMalformedInstruction)
	require.Equal(faults.Validation, faults.KindOf(err))
}
