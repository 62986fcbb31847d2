// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chained"
	"github.com/lssa-labs/treasuryvm/codec"
)

// Program is a pure state transition over the accounts of an invocation.
// It may not read or write anything but its inputs and must return one
// post state per input account.
type Program interface {
	ID() codec.ProgramID
	Execute(ctx context.Context, inv *Invocation) (*Output, error)
}

// Invocation is everything a program sees for one call.
type Invocation struct {
	// Self is the id of the running program.
	Self codec.ProgramID
	// Caller is empty for the top-level call of a transaction.
	Caller      codec.ProgramID
	Accounts    []account.WithMeta
	Instruction []byte
	// Approvals are the threshold witnesses attached to the transaction.
	// They are only passed to the top-level call.
	Approvals []*auth.Witness
}

// Output is the result of a successful invocation.
type Output struct {
	PostStates []account.PostState
	Calls      []*chained.Call
}

// Unchanged returns a post state for every account that leaves it as is.
func Unchanged(accounts []account.WithMeta) []account.PostState {
	posts := make([]account.PostState, len(accounts))
	for i := range accounts {
		posts[i] = account.Updated(*accounts[i].Account.Clone())
	}
	return posts
}
