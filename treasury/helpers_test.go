// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
	"github.com/lssa-labs/treasuryvm/pda"
	"github.com/lssa-labs/treasuryvm/program"
	"github.com/lssa-labs/treasuryvm/token"
)

func newProgram() *Program {
	return New(pda.Default(), auth.ED25519Verifier{})
}

func newSigners(t *testing.T, n int) []*auth.ED25519Factory {
	signers := make([]*auth.ED25519Factory, n)
	for i := range signers {
		priv, err := ed25519.GeneratePrivateKey()
		require.NoError(t, err)
		signers[i] = auth.NewED25519Factory(priv)
	}
	return signers
}

func publicKeys(signers []*auth.ED25519Factory) []ed25519.PublicKey {
	pks := make([]ed25519.PublicKey, len(signers))
	for i, s := range signers {
		pks[i] = s.PublicKey()
	}
	return pks
}

func run(p *Program, ix Instruction, approvals []*auth.Witness, accounts ...account.WithMeta) (*program.Output, error) {
	return p.Execute(context.Background(), &program.Invocation{
		Self:        p.ID(),
		Accounts:    accounts,
		Instruction: Encode(ix),
		Approvals:   approvals,
	})
}

// apply stores the post states the way the coordinator would.
func apply(writer codec.ProgramID, pres []account.WithMeta, posts []account.PostState) []account.WithMeta {
	out := make([]account.WithMeta, len(pres))
	for i := range pres {
		out[i] = account.WithMeta{ID: pres[i].ID, Account: posts[i].Resolve(writer)}
	}
	return out
}

func approve(p *Program, ix Instruction, signers ...*auth.ED25519Factory) []*auth.Witness {
	msg := ApprovalMessage(p.ID(), p.Addresses().MultisigState(), Encode(ix))
	witnesses := make([]*auth.Witness, len(signers))
	for i, s := range signers {
		witnesses[i] = s.Sign(msg)
	}
	return witnesses
}

func holding(id, definition codec.Address, balance uint64) account.WithMeta {
	return account.WithMeta{
		ID: id,
		Account: account.Account{
			Owner: token.ID,
			Data:  (&token.Holding{Definition: definition, Balance: balance}).Bytes(),
		},
	}
}
