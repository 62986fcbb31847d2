// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/chained"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/program"
	"github.com/lssa-labs/treasuryvm/token"
)

// createVault expects [treasury_state, token_definition, vault_holding].
//
// The treasury state is claimed on first use. The vault holding is derived
// from the definition id, so every token gets its own vault.
func (p *Program) createVault(inv *program.Invocation, ix *CreateVault) (*program.Output, error) {
	if len(ix.TokenName) == 0 || len(ix.TokenName) > consts.TokenNameLen {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenName, ix.TokenName)
	}
	if len(ix.AuthorizedSigners) == 0 {
		return nil, ErrNoSigners
	}
	if err := checkDistinct(ix.AuthorizedSigners); err != nil {
		return nil, err
	}
	stateAcct, definition, vault := inv.Accounts[0], inv.Accounts[1], inv.Accounts[2]
	if stateAcct.ID != p.addrs.TreasuryState() {
		return nil, fmt.Errorf("%w: %s", ErrWrongStateAccount, stateAcct.ID)
	}
	if p.addrs.Reserved(definition.ID) {
		return nil, fmt.Errorf("%w: definition %s", ErrReservedAccount, definition.ID)
	}

	first := !stateAcct.Account.Claimed()
	state := &TreasuryState{AuthorizedAccounts: ix.AuthorizedSigners}
	if !first {
		var err error
		state, err = p.loadTreasuryState(&stateAcct)
		if err != nil {
			return nil, err
		}
		if !sameSigners(state.AuthorizedAccounts, ix.AuthorizedSigners) {
			return nil, ErrSignersMismatch
		}
	}
	state.VaultCount++

	data, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	statePost := *stateAcct.Account.Clone()
	statePost.Data = data

	newDefinition, err := token.NewDefinition(ix.TokenName, ix.InitialSupply)
	if err != nil {
		return nil, err
	}
	call := chained.New(ix.TokenProgram, token.Encode(newDefinition)).
		With(definition).
		WithAuthorized(vault, VaultSeed(definition.ID))

	posts := program.Unchanged(inv.Accounts)
	posts[0] = account.Updated(statePost)
	if first {
		posts[0] = account.Claimed(statePost)
	}
	return &program.Output{PostStates: posts, Calls: []*chained.Call{call}}, nil
}

// send expects [treasury_state, vault_holding, recipient, signer].
//
// The vault seed is recovered from the vault's own data, so the vault must
// already be a token holding.
func (p *Program) send(inv *program.Invocation, ix *Send) (*program.Output, error) {
	stateAcct, vault, recipient, signer := inv.Accounts[0], inv.Accounts[1], inv.Accounts[2], inv.Accounts[3]
	if stateAcct.ID != p.addrs.TreasuryState() {
		return nil, fmt.Errorf("%w: %s", ErrWrongStateAccount, stateAcct.ID)
	}
	state, err := p.loadTreasuryState(&stateAcct)
	if err != nil {
		return nil, err
	}
	if !state.IsAuthorized(signer.ID) {
		return nil, fmt.Errorf("%w: %s", ErrSignerNotListed, signer.ID)
	}
	if !signer.IsAuthorized {
		return nil, fmt.Errorf("%w: %s", ErrSignerNotSigned, signer.ID)
	}
	definition, err := token.HoldingDefinition(vault.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidVault, vault.ID, err)
	}

	call := chained.New(ix.TokenProgram, token.Encode(&token.Transfer{Amount: ix.Amount})).
		WithAuthorized(vault, VaultSeed(definition)).
		With(recipient)
	return &program.Output{
		PostStates: program.Unchanged(inv.Accounts),
		Calls:      []*chained.Call{call},
	}, nil
}

// deposit expects [treasury_state, sender_holding, vault_holding]. The
// sender authorizes itself with a transaction witness, so the chained call
// carries no seeds.
func (p *Program) deposit(inv *program.Invocation, ix *Deposit) (*program.Output, error) {
	stateAcct, sender, vault := inv.Accounts[0], inv.Accounts[1], inv.Accounts[2]
	if stateAcct.ID != p.addrs.TreasuryState() {
		return nil, fmt.Errorf("%w: %s", ErrWrongStateAccount, stateAcct.ID)
	}
	if _, err := p.loadTreasuryState(&stateAcct); err != nil {
		return nil, err
	}

	call := chained.New(ix.TokenProgram, token.Encode(&token.Transfer{Amount: ix.Amount})).
		With(sender).
		With(vault)
	return &program.Output{
		PostStates: program.Unchanged(inv.Accounts),
		Calls:      []*chained.Call{call},
	}, nil
}

func (p *Program) loadTreasuryState(acct *account.WithMeta) (*TreasuryState, error) {
	if !acct.Account.Claimed() {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, acct.ID)
	}
	if acct.Account.Owner != p.id {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrNotProgramAccount, acct.ID, acct.Account.Owner)
	}
	return ParseTreasuryState(acct.Account.Data)
}

func checkDistinct(addrs []codec.Address) error {
	seen := make(map[codec.Address]struct{}, len(addrs))
	for _, a := range addrs {
		if _, ok := seen[a]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSigner, a)
		}
		seen[a] = struct{}{}
	}
	return nil
}

func sameSigners(recorded, given []codec.Address) bool {
	if len(recorded) != len(given) {
		return false
	}
	set := make(map[codec.Address]struct{}, len(recorded))
	for _, a := range recorded {
		set[a] = struct{}{}
	}
	for _, a := range given {
		if _, ok := set[a]; !ok {
			return false
		}
	}
	return true
}
