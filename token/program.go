// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/program"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ program.Program = (*Program)(nil)

// Program is the fungible token program. Token balances live in account
// data; native balances are never touched.
type Program struct{}

func New() *Program {
	return &Program{}
}

func (*Program) ID() codec.ProgramID {
	return ID
}

func (*Program) Execute(_ context.Context, inv *program.Invocation) (*program.Output, error) {
	ix, err := Decode(inv.Instruction)
	if err != nil {
		return nil, err
	}
	var posts []account.PostState
	switch ix := ix.(type) {
	case *NewFungibleDefinition:
		posts, err = newFungibleDefinition(inv.Accounts, ix)
	case *Transfer:
		posts, err = transfer(inv.Accounts, ix)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownInstruction, ix)
	}
	if err != nil {
		return nil, err
	}
	return &program.Output{PostStates: posts}, nil
}

// newFungibleDefinition expects [definition, holding].
func newFungibleDefinition(accounts []account.WithMeta, ix *NewFungibleDefinition) ([]account.PostState, error) {
	if len(accounts) != 2 {
		return nil, fmt.Errorf("%w: got %d, expected 2", ErrWrongAccountCount, len(accounts))
	}
	definition, holding := accounts[0], accounts[1]
	if definition.Account.Claimed() || len(definition.Account.Data) != 0 {
		return nil, fmt.Errorf("%w: definition %s", ErrAlreadyInitialized, definition.ID)
	}
	if holding.Account.Claimed() || len(holding.Account.Data) != 0 {
		return nil, fmt.Errorf("%w: holding %s", ErrAlreadyInitialized, holding.ID)
	}
	if !holding.IsAuthorized {
		return nil, fmt.Errorf("%w: %s", ErrNotAuthorized, holding.ID)
	}

	defPost := *definition.Account.Clone()
	defPost.Data = (&Definition{Name: ix.Name, TotalSupply: ix.TotalSupply}).Bytes()

	holdPost := *holding.Account.Clone()
	holdPost.Data = (&Holding{Definition: definition.ID, Balance: ix.TotalSupply}).Bytes()

	return []account.PostState{
		account.Claimed(defPost),
		account.Claimed(holdPost),
	}, nil
}

// transfer expects [sender, recipient].
func transfer(accounts []account.WithMeta, ix *Transfer) ([]account.PostState, error) {
	if len(accounts) != 2 {
		return nil, fmt.Errorf("%w: got %d, expected 2", ErrWrongAccountCount, len(accounts))
	}
	if ix.Amount == 0 {
		return nil, ErrZeroAmount
	}
	sender, recipient := accounts[0], accounts[1]
	if !sender.IsAuthorized {
		return nil, fmt.Errorf("%w: %s", ErrNotAuthorized, sender.ID)
	}
	if sender.ID == recipient.ID {
		return nil, fmt.Errorf("%w: %s", ErrSelfTransfer, sender.ID)
	}
	from, err := ParseHolding(sender.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: sender %s", err, sender.ID)
	}
	if from.Balance < ix.Amount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, from.Balance, ix.Amount)
	}

	claim := !recipient.Account.Claimed()
	to := &Holding{Definition: from.Definition}
	if !claim {
		to, err = ParseHolding(recipient.Account.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %s", err, recipient.ID)
		}
		if to.Definition != from.Definition {
			return nil, fmt.Errorf("%w: %s != %s", ErrDefinitionMismatch, to.Definition, from.Definition)
		}
	} else if len(recipient.Account.Data) != 0 {
		return nil, fmt.Errorf("%w: recipient %s", ErrInvalidHolding, recipient.ID)
	}
	to.Balance, err = smath.Add(to.Balance, ix.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBalanceOverflow, err)
	}
	from.Balance -= ix.Amount

	senderPost := *sender.Account.Clone()
	senderPost.Data = from.Bytes()
	recipientPost := *recipient.Account.Clone()
	recipientPost.Data = to.Bytes()

	recipientState := account.Updated(recipientPost)
	if claim {
		recipientState = account.Claimed(recipientPost)
	}
	return []account.PostState{account.Updated(senderPost), recipientState}, nil
}
