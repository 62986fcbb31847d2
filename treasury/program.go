// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"context"
	"fmt"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/pda"
	"github.com/lssa-labs/treasuryvm/program"
)

var _ program.Program = (*Program)(nil)

// Program implements the vault and multisig instructions. It is stateless;
// everything it reads comes from the invocation.
type Program struct {
	id       codec.ProgramID
	deriver  *pda.Deriver
	verifier auth.Verifier
	addrs    *Addresses
}

// New returns the treasury program registered as [ID].
func New(deriver *pda.Deriver, verifier auth.Verifier) *Program {
	return NewWithID(ID, deriver, verifier)
}

// NewWithID returns a treasury program deployed under [id].
func NewWithID(id codec.ProgramID, deriver *pda.Deriver, verifier auth.Verifier) *Program {
	return &Program{
		id:       id,
		deriver:  deriver,
		verifier: verifier,
		addrs:    NewAddresses(deriver, id),
	}
}

func (p *Program) ID() codec.ProgramID {
	return p.id
}

func (p *Program) Addresses() *Addresses {
	return p.addrs
}

func (p *Program) Execute(_ context.Context, inv *program.Invocation) (*program.Output, error) {
	ix, err := Decode(inv.Instruction)
	if err != nil {
		return nil, err
	}
	if err := checkAccounts(ix.GetTypeID(), inv.Accounts); err != nil {
		return nil, err
	}
	switch ix := ix.(type) {
	case *CreateVault:
		return p.createVault(inv, ix)
	case *Send:
		return p.send(inv, ix)
	case *Deposit:
		return p.deposit(inv, ix)
	case *CreateMultisig:
		return p.createMultisig(inv, ix)
	case *Execute:
		return p.execute(inv, ix)
	case *AddMember:
		return p.addMember(inv, ix)
	case *RemoveMember:
		return p.removeMember(inv, ix)
	case *ChangeThreshold:
		return p.changeThreshold(inv, ix)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownInstruction, ix)
	}
}

// checkAccounts enforces the declared account shape of an instruction.
func checkAccounts(typeID uint8, accounts []account.WithMeta) error {
	spec, ok := Lookup(typeID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownInstruction, typeID)
	}
	if len(accounts) != len(spec.Accounts) {
		return fmt.Errorf("%w: %s got %d, expected %d", ErrWrongAccountCount, spec.Name, len(accounts), len(spec.Accounts))
	}
	seen := make(map[codec.Address]struct{}, len(accounts))
	for _, acct := range accounts {
		if _, ok := seen[acct.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, acct.ID)
		}
		seen[acct.ID] = struct{}{}
	}
	return nil
}
