// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chained describes calls a program asks the coordinator to run
// after it returns, and the proof (one seed per authorized account) that
// lets the caller authorize accounts derived from its own id.
package chained

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/faults"
	"github.com/lssa-labs/treasuryvm/pda"
)

var (
	ErrSeedCountMismatch = fmt.Errorf("%w: seed count does not match authorized accounts", faults.ErrAuthorization)
	ErrSeedMismatch      = fmt.Errorf("%w: seed does not derive authorized account", faults.ErrAuthorization)
)

// Call is a pending invocation of Program with Accounts. Seeds are
// positionally aligned with the authorized entries of Accounts.
type Call struct {
	Program     codec.ProgramID    `json:"program"`
	Accounts    []account.WithMeta `json:"accounts"`
	Instruction codec.Bytes        `json:"instruction"`
	Seeds       []pda.Seed         `json:"seeds"`
}

// New starts a call to [program] with the encoded [instruction].
func New(program codec.ProgramID, instruction []byte) *Call {
	return &Call{
		Program:     program,
		Instruction: instruction,
	}
}

// With appends [acct] without authorization.
func (c *Call) With(acct account.WithMeta) *Call {
	acct.IsAuthorized = false
	c.Accounts = append(c.Accounts, acct)
	return c
}

// WithAuthorized appends [acct] marked as authorized along with the seed
// that proves the caller derived it.
func (c *Call) WithAuthorized(acct account.WithMeta, seed pda.Seed) *Call {
	acct.IsAuthorized = true
	c.Accounts = append(c.Accounts, acct)
	c.Seeds = append(c.Seeds, seed)
	return c
}

// Authorized returns the ids of the accounts flagged as authorized, in order.
func (c *Call) Authorized() []codec.Address {
	var ids []codec.Address
	for _, acct := range c.Accounts {
		if acct.IsAuthorized {
			ids = append(ids, acct.ID)
		}
	}
	return ids
}

// Verify checks that every authorized account of [call] is the address
// [caller] derives from the matching seed.
func Verify(d *pda.Deriver, caller codec.ProgramID, call *Call) error {
	authorized := call.Authorized()
	if len(authorized) != len(call.Seeds) {
		return fmt.Errorf("%w: %d seeds for %d accounts", ErrSeedCountMismatch, len(call.Seeds), len(authorized))
	}
	for i, id := range authorized {
		if derived := d.Derive(caller, call.Seeds[i]); derived != id {
			return fmt.Errorf("%w: account %s, derived %s", ErrSeedMismatch, id, derived)
		}
	}
	return nil
}
