// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/faults"
)

type noop struct {
	id codec.ProgramID
}

func (n noop) ID() codec.ProgramID {
	return n.id
}

func (noop) Execute(_ context.Context, inv *Invocation) (*Output, error) {
	return &Output{PostStates: Unchanged(inv.Accounts)}, nil
}

func TestRegistry(t *testing.T) {
	require := require.New(t)

	a := noop{id: codec.NewProgramID("a")}
	r, err := NewRegistry(a)
	require.NoError(err)

	got, err := r.Get(a.id)
	require.NoError(err)
	require.Equal(a, got)

	_, err = r.Get(codec.NewProgramID("b"))
	require.ErrorIs(err, ErrUnknownProgram)
	require.Equal(faults.Validation, faults.KindOf(err))

	require.ErrorIs(r.Register(a), ErrDuplicateProgram)
	_, err = NewRegistry(a, a)
	require.ErrorIs(err, ErrDuplicateProgram)
}

func TestUnchanged(t *testing.T) {
	require := require.New(t)

	accounts := []account.WithMeta{
		{ID: codec.Address{1}, Account: account.Account{Balance: 1, Data: []byte{1}}},
	}
	posts := Unchanged(accounts)
	require.Len(posts, 1)
	require.False(posts[0].Claim)
	require.True(posts[0].Account.Equal(&accounts[0].Account))

	posts[0].Account.Data[0] = 2
	require.Equal(byte(1), accounts[0].Account.Data[0])
}
