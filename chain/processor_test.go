// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chained"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
	"github.com/lssa-labs/treasuryvm/faults"
	"github.com/lssa-labs/treasuryvm/pda"
	"github.com/lssa-labs/treasuryvm/program"
	"github.com/lssa-labs/treasuryvm/storage"
	"github.com/lssa-labs/treasuryvm/token"
	"github.com/lssa-labs/treasuryvm/treasury"
)

var errBoom = errors.New("boom")

// funcProgram runs an arbitrary function as a program.
type funcProgram struct {
	id codec.ProgramID
	f  func(inv *program.Invocation) (*program.Output, error)
}

func (p *funcProgram) ID() codec.ProgramID {
	return p.id
}

func (p *funcProgram) Execute(_ context.Context, inv *program.Invocation) (*program.Output, error) {
	return p.f(inv)
}

var (
	relayID  = codec.NewProgramID("relay")
	fanoutID = codec.NewProgramID("fanout")
	noopID   = codec.NewProgramID("noop")
	failID   = codec.NewProgramID("fail")
)

// relay calls itself until the counter in its instruction reaches zero.
var relay = &funcProgram{id: relayID, f: func(inv *program.Invocation) (*program.Output, error) {
	out := &program.Output{PostStates: program.Unchanged(inv.Accounts)}
	if n := inv.Instruction[0]; n > 0 {
		out.Calls = []*chained.Call{chained.New(relayID, []byte{n - 1})}
	}
	return out, nil
}}

// fanout calls noop as many times as its instruction says.
var fanout = &funcProgram{id: fanoutID, f: func(inv *program.Invocation) (*program.Output, error) {
	out := &program.Output{PostStates: program.Unchanged(inv.Accounts)}
	for i := 0; i < int(inv.Instruction[0]); i++ {
		out.Calls = append(out.Calls, chained.New(noopID, nil))
	}
	return out, nil
}}

var noop = &funcProgram{id: noopID, f: func(inv *program.Invocation) (*program.Output, error) {
	return &program.Output{PostStates: program.Unchanged(inv.Accounts)}, nil
}}

var fail = &funcProgram{id: failID, f: func(*program.Invocation) (*program.Output, error) {
	return nil, errBoom
}}

type testEnv struct {
	processor *Processor
	treasury  *treasury.Program
	db        *memdb.Database
}

func newTestEnv(t *testing.T, extra ...program.Program) *testEnv {
	t.Helper()

	tp := treasury.New(pda.Default(), auth.ED25519Verifier{})
	programs := append([]program.Program{tp, token.New(), relay, fanout, noop, fail}, extra...)
	registry, err := program.NewRegistry(programs...)
	require.NoError(t, err)
	processor, _, err := NewProcessor(
		NewDefaultConfig(),
		logging.NoLog{},
		trace.Noop,
		registry,
		pda.Default(),
		auth.ED25519Verifier{},
	)
	require.NoError(t, err)
	return &testEnv{processor: processor, treasury: tp, db: memdb.New()}
}

func (e *testEnv) execute(t *testing.T, msg *Message, signers ...*auth.ED25519Factory) (*Result, error) {
	t.Helper()

	tx, err := NewTx(msg).Sign(signers...)
	require.NoError(t, err)
	return e.processor.Execute(context.Background(), e.db, tx)
}

func (e *testEnv) account(t *testing.T, addr codec.Address) *account.Account {
	t.Helper()

	acct, err := storage.GetAccountFromDB(e.db, addr)
	require.NoError(t, err)
	return acct
}

func (e *testEnv) balance(t *testing.T, addr codec.Address) uint64 {
	t.Helper()

	h, err := token.ParseHolding(e.account(t, addr).Data)
	require.NoError(t, err)
	return h.Balance
}

func (e *testEnv) nonce(t *testing.T, addr codec.Address) uint64 {
	return e.account(t, addr).Nonce
}

// mint creates a token whose whole supply lands in [holder]'s keyed account.
func (e *testEnv) mint(t *testing.T, holder *auth.ED25519Factory, definition codec.Address, supply uint64) {
	t.Helper()

	ix, err := token.NewDefinition("GOLD", supply)
	require.NoError(t, err)
	_, err = e.execute(t, &Message{
		Program:     token.ID,
		Accounts:    []codec.Address{definition, holder.Address()},
		Nonces:      []uint64{e.nonce(t, holder.Address())},
		Instruction: token.Encode(ix),
	}, holder)
	require.NoError(t, err)
}

func transferMsg(e *testEnv, t *testing.T, from *auth.ED25519Factory, to codec.Address, amount uint64) *Message {
	return &Message{
		Program:     token.ID,
		Accounts:    []codec.Address{from.Address(), to},
		Nonces:      []uint64{e.nonce(t, from.Address())},
		Instruction: token.Encode(&token.Transfer{Amount: amount}),
	}
}

func TestExecuteMint(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	holder := newFactory(t)
	definition := codec.Address{0xd}
	e.mint(t, holder, definition, 500)

	require.Equal(uint64(500), e.balance(t, holder.Address()))
	require.Equal(uint64(1), e.nonce(t, holder.Address()))
	require.Equal(token.ID, e.account(t, definition).Owner)
	require.Equal(token.ID, e.account(t, holder.Address()).Owner)
}

func TestExecuteNonceReplay(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	holder := newFactory(t)
	e.mint(t, holder, codec.Address{0xd}, 500)

	tx, err := NewTx(transferMsg(e, t, holder, codec.Address{0x9}, 10)).Sign(holder)
	require.NoError(err)
	_, err = e.processor.Execute(context.Background(), e.db, tx)
	require.NoError(err)

	_, err = e.processor.Execute(context.Background(), e.db, tx)
	require.ErrorIs(err, ErrNonceMismatch)
	require.Equal(faults.State, faults.KindOf(err))
	require.Equal(uint64(490), e.balance(t, holder.Address()))
	require.Equal(uint64(10), e.balance(t, codec.Address{0x9}))
}

func TestExecuteInvalidWitness(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	holder := newFactory(t)
	e.mint(t, holder, codec.Address{0xd}, 500)

	tx, err := NewTx(transferMsg(e, t, holder, codec.Address{0x9}, 10)).Sign(holder)
	require.NoError(err)
	tx.Witnesses[0].Signature[0] ^= 0xff
	_, err = e.processor.Execute(context.Background(), e.db, tx)
	require.ErrorIs(err, ErrInvalidWitness)
	require.Equal(faults.Authorization, faults.KindOf(err))
	require.Equal(uint64(500), e.balance(t, holder.Address()))
}

func TestExecuteUnsignedTransferRejected(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	holder := newFactory(t)
	e.mint(t, holder, codec.Address{0xd}, 500)

	msg := transferMsg(e, t, holder, codec.Address{0x9}, 10)
	msg.Nonces = nil
	_, err := e.execute(t, msg)
	require.ErrorIs(err, token.ErrNotAuthorized)
	require.Equal(faults.Authorization, faults.KindOf(err))
}

func TestVaultFlow(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	addrs := e.treasury.Addresses()
	signer := newFactory(t)
	definition := codec.Address{0xd}
	vault := addrs.Vault(definition)

	res, err := e.execute(t, &Message{
		Program:  treasury.ID,
		Accounts: []codec.Address{addrs.TreasuryState(), definition, vault},
		Instruction: treasury.Encode(&treasury.CreateVault{
			TokenName:         "GOLD",
			InitialSupply:     100,
			TokenProgram:      token.ID,
			AuthorizedSigners: []codec.Address{signer.Address()},
		}),
	})
	require.NoError(err)
	require.True(res.Success)
	require.Equal(1, res.ChainedCalls)
	require.ElementsMatch([]codec.Address{addrs.TreasuryState(), definition, vault}, res.Touched)
	require.Equal(uint64(100), e.balance(t, vault))
	require.Equal(treasury.ID, e.account(t, addrs.TreasuryState()).Owner)
	require.Equal(token.ID, e.account(t, vault).Owner)

	// Send from the vault, authorized by the listed signer.
	recipient := newFactory(t)
	_, err = e.execute(t, &Message{
		Program:     treasury.ID,
		Accounts:    []codec.Address{addrs.TreasuryState(), vault, recipient.Address(), signer.Address()},
		Nonces:      []uint64{0},
		Instruction: treasury.Encode(&treasury.Send{Amount: 30, TokenProgram: token.ID}),
	}, signer)
	require.NoError(err)
	require.Equal(uint64(70), e.balance(t, vault))
	require.Equal(uint64(30), e.balance(t, recipient.Address()))
	require.Equal(uint64(1), e.nonce(t, signer.Address()))

	// A signer that is not listed cannot send, and nothing is written.
	outsider := newFactory(t)
	_, err = e.execute(t, &Message{
		Program:     treasury.ID,
		Accounts:    []codec.Address{addrs.TreasuryState(), vault, recipient.Address(), outsider.Address()},
		Nonces:      []uint64{0},
		Instruction: treasury.Encode(&treasury.Send{Amount: 30, TokenProgram: token.ID}),
	}, outsider)
	require.ErrorIs(err, treasury.ErrSignerNotListed)
	require.Equal(uint64(70), e.balance(t, vault))
	require.Zero(e.nonce(t, outsider.Address()))

	// The recipient deposits part of it back.
	_, err = e.execute(t, &Message{
		Program:     treasury.ID,
		Accounts:    []codec.Address{addrs.TreasuryState(), recipient.Address(), vault},
		Nonces:      []uint64{0},
		Instruction: treasury.Encode(&treasury.Deposit{Amount: 10, TokenProgram: token.ID}),
	}, recipient)
	require.NoError(err)
	require.Equal(uint64(80), e.balance(t, vault))
	require.Equal(uint64(20), e.balance(t, recipient.Address()))
}

func TestVaultCannotBeForgedByOtherProgram(t *testing.T) {
	require := require.New(t)

	definition := codec.Address{0xd}

	// A program other than the treasury presents the treasury's seed.
	thiefID := codec.NewProgramID("thief")
	thief := &funcProgram{id: thiefID, f: func(inv *program.Invocation) (*program.Output, error) {
		call := chained.New(token.ID, token.Encode(&token.Transfer{Amount: 100})).
			WithAuthorized(inv.Accounts[0], treasury.VaultSeed(definition)).
			With(inv.Accounts[1])
		return &program.Output{
			PostStates: program.Unchanged(inv.Accounts),
			Calls:      []*chained.Call{call},
		}, nil
	}}
	e := newTestEnv(t, thief)
	addrs := e.treasury.Addresses()
	vault := addrs.Vault(definition)
	_, err := e.execute(t, &Message{
		Program:  treasury.ID,
		Accounts: []codec.Address{addrs.TreasuryState(), definition, vault},
		Instruction: treasury.Encode(&treasury.CreateVault{
			TokenName:         "GOLD",
			InitialSupply:     100,
			TokenProgram:      token.ID,
			AuthorizedSigners: []codec.Address{{0x5}},
		}),
	})
	require.NoError(err)

	_, err = e.execute(t, &Message{
		Program:  thiefID,
		Accounts: []codec.Address{vault, {0x9}},
	})
	require.ErrorIs(err, chained.ErrSeedMismatch)
	require.Equal(faults.Authorization, faults.KindOf(err))
	require.Equal(uint64(100), e.balance(t, vault))
}

func TestVaultCannotOccupyMultisigAccounts(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	addrs := e.treasury.Addresses()
	createVault := func(definition codec.Address) error {
		_, err := e.execute(t, &Message{
			Program:  treasury.ID,
			Accounts: []codec.Address{addrs.TreasuryState(), definition, addrs.Vault(definition)},
			Instruction: treasury.Encode(&treasury.CreateVault{
				TokenName:         "GOLD",
				InitialSupply:     100,
				TokenProgram:      token.ID,
				AuthorizedSigners: []codec.Address{{0x5}},
			}),
		})
		return err
	}

	// A definition id equal to the multisig state seed gets an ordinary vault.
	definition := codec.Address(treasury.MultisigStateSeed())
	require.NotEqual(addrs.MultisigState(), addrs.Vault(definition))
	require.NoError(createVault(definition))
	require.Equal(uint64(100), e.balance(t, addrs.Vault(definition)))

	// The multisig accounts themselves cannot be used as a definition.
	err := createVault(addrs.MultisigState())
	require.ErrorIs(err, treasury.ErrReservedAccount)
	require.NotEqual(addrs.MultisigVault(), addrs.Vault(addrs.MultisigState()))

	// The multisig can still be created and owns its state.
	member := newFactory(t)
	_, err = e.execute(t, &Message{
		Program:  treasury.ID,
		Accounts: []codec.Address{addrs.MultisigState()},
		Instruction: treasury.Encode(&treasury.CreateMultisig{
			Threshold:    1,
			Members:      []ed25519.PublicKey{member.PublicKey()},
			TokenProgram: token.ID,
		}),
	})
	require.NoError(err)
	require.Equal(treasury.ID, e.account(t, addrs.MultisigState()).Owner)
	require.False(e.account(t, addrs.MultisigVault()).Claimed())
}

func TestMultisigFlow(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	addrs := e.treasury.Addresses()
	members := []*auth.ED25519Factory{newFactory(t), newFactory(t), newFactory(t)}
	pks := make([]ed25519.PublicKey, len(members))
	for i, m := range members {
		pks[i] = m.PublicKey()
	}

	_, err := e.execute(t, &Message{
		Program:  treasury.ID,
		Accounts: []codec.Address{addrs.MultisigState()},
		Instruction: treasury.Encode(&treasury.CreateMultisig{
			Threshold:    2,
			Members:      pks,
			TokenProgram: token.ID,
		}),
	})
	require.NoError(err)

	// Fund the multisig vault.
	funder := newFactory(t)
	e.mint(t, funder, codec.Address{0xd}, 1000)
	_, err = e.execute(t, transferMsg(e, t, funder, addrs.MultisigVault(), 400), funder)
	require.NoError(err)
	require.Equal(uint64(400), e.balance(t, addrs.MultisigVault()))

	recipient := codec.Address{0x7}
	ix := &treasury.Execute{Recipient: recipient, Amount: 150, Nonce: 0}
	approve := func(signers ...*auth.ED25519Factory) []*auth.Witness {
		msg := treasury.ApprovalMessage(treasury.ID, addrs.MultisigState(), treasury.Encode(ix))
		approvals := make([]*auth.Witness, len(signers))
		for i, s := range signers {
			approvals[i] = s.Sign(msg)
		}
		return approvals
	}
	executeTx := func(approvals []*auth.Witness) (*Result, error) {
		tx := NewTx(&Message{
			Program:     treasury.ID,
			Accounts:    []codec.Address{addrs.MultisigState(), addrs.MultisigVault(), recipient},
			Instruction: treasury.Encode(ix),
		})
		tx, err := tx.Approve(approvals...)
		require.NoError(err)
		return e.processor.Execute(context.Background(), e.db, tx)
	}

	// One approval is not enough.
	_, err = executeTx(approve(members[0]))
	require.ErrorIs(err, treasury.ErrInsufficientSigs)
	require.True(faults.Retryable(err))
	require.Equal(uint64(400), e.balance(t, addrs.MultisigVault()))

	approvals := approve(members[0], members[2])
	res, err := executeTx(approvals)
	require.NoError(err)
	require.Equal(1, res.ChainedCalls)
	require.Equal(uint64(250), e.balance(t, addrs.MultisigVault()))
	require.Equal(uint64(150), e.balance(t, recipient))

	st, err := treasury.ParseMultisigState(e.account(t, addrs.MultisigState()).Data)
	require.NoError(err)
	require.Equal(uint64(1), st.Nonce)

	// The same approvals cannot be replayed.
	_, err = executeTx(approvals)
	require.ErrorIs(err, treasury.ErrStaleNonce)
	require.Equal(faults.State, faults.KindOf(err))
	require.Equal(uint64(150), e.balance(t, recipient))
}

func TestCallDepthLimit(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	res, err := e.execute(t, &Message{Program: relayID, Instruction: []byte{8}})
	require.NoError(err)
	require.Equal(8, res.ChainedCalls)

	_, err = e.execute(t, &Message{Program: relayID, Instruction: []byte{9}})
	require.ErrorIs(err, ErrCallDepthExceeded)
	require.Equal(faults.Resource, faults.KindOf(err))
}

func TestChainedCallLimit(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	res, err := e.execute(t, &Message{Program: fanoutID, Instruction: []byte{32}})
	require.NoError(err)
	require.Equal(32, res.ChainedCalls)

	_, err = e.execute(t, &Message{Program: fanoutID, Instruction: []byte{33}})
	require.ErrorIs(err, ErrTooManyCalls)
}

func TestChainedCallChecks(t *testing.T) {
	undeclared := codec.Address{0x42}
	declared := codec.Address{0x43}

	tests := []struct {
		name  string
		calls func(inv *program.Invocation) []*chained.Call
		err   error
	}{
		{
			name: "undeclared account",
			calls: func(*program.Invocation) []*chained.Call {
				return []*chained.Call{chained.New(noopID, nil).With(account.WithMeta{ID: undeclared})}
			},
			err: ErrUndeclaredAccount,
		},
		{
			name: "stale snapshot",
			calls: func(inv *program.Invocation) []*chained.Call {
				stale := inv.Accounts[0]
				stale.Account.Balance = 99
				return []*chained.Call{chained.New(noopID, nil).With(stale)}
			},
			err: ErrStaleSnapshot,
		},
		{
			name: "duplicate account",
			calls: func(inv *program.Invocation) []*chained.Call {
				return []*chained.Call{chained.New(noopID, nil).With(inv.Accounts[0]).With(inv.Accounts[0])}
			},
			err: ErrDuplicateAccount,
		},
		{
			name: "seed count mismatch",
			calls: func(inv *program.Invocation) []*chained.Call {
				call := chained.New(noopID, nil).With(inv.Accounts[0])
				call.Accounts[0].IsAuthorized = true
				return []*chained.Call{call}
			},
			err: chained.ErrSeedCountMismatch,
		},
		{
			name: "unknown program",
			calls: func(*program.Invocation) []*chained.Call {
				return []*chained.Call{chained.New(codec.NewProgramID("missing"), nil)}
			},
			err: program.ErrUnknownProgram,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			id := codec.NewProgramID("caller" + string(rune('a'+i)))
			caller := &funcProgram{id: id, f: func(inv *program.Invocation) (*program.Output, error) {
				return &program.Output{PostStates: program.Unchanged(inv.Accounts), Calls: tt.calls(inv)}, nil
			}}
			e := newTestEnv(t, caller)
			_, err := e.execute(t, &Message{Program: id, Accounts: []codec.Address{declared}})
			require.ErrorIs(err, tt.err)
		})
	}
}

func TestRollbackOnChainedFailure(t *testing.T) {
	require := require.New(t)

	writerID := codec.NewProgramID("writer")
	writer := &funcProgram{id: writerID, f: func(inv *program.Invocation) (*program.Output, error) {
		post := *inv.Accounts[0].Account.Clone()
		post.Data = []byte{0x1}
		posts := program.Unchanged(inv.Accounts)
		posts[0] = account.Claimed(post)
		return &program.Output{
			PostStates: posts,
			Calls:      []*chained.Call{chained.New(failID, nil)},
		}, nil
	}}
	e := newTestEnv(t, writer)
	signer := newFactory(t)
	target := codec.Address{0x1}

	_, err := e.execute(t, &Message{
		Program:  writerID,
		Accounts: []codec.Address{target, signer.Address()},
		Nonces:   []uint64{0},
	}, signer)
	require.ErrorIs(err, errBoom)

	require.Equal(&account.Account{}, e.account(t, target))
	require.Zero(e.nonce(t, signer.Address()))
	has, err := e.db.Has(storage.AccountKey(target))
	require.NoError(err)
	require.False(has)
}

func TestSeedMismatchDiscardsEarlierWrites(t *testing.T) {
	require := require.New(t)

	claim := func(acct account.WithMeta) account.PostState {
		post := *acct.Account.Clone()
		post.Data = []byte{0x1}
		return account.Claimed(post)
	}

	// outer claims its first account and calls middle.
	outerID := codec.NewProgramID("outer")
	middleID := codec.NewProgramID("middle")
	outer := &funcProgram{id: outerID, f: func(inv *program.Invocation) (*program.Output, error) {
		posts := program.Unchanged(inv.Accounts)
		posts[0] = claim(inv.Accounts[0])
		call := chained.New(middleID, nil).With(inv.Accounts[1]).With(inv.Accounts[2])
		return &program.Output{PostStates: posts, Calls: []*chained.Call{call}}, nil
	}}
	// middle claims its first account, then marks an account it does not
	// derive as authorized.
	middle := &funcProgram{id: middleID, f: func(inv *program.Invocation) (*program.Output, error) {
		posts := program.Unchanged(inv.Accounts)
		posts[0] = claim(inv.Accounts[0])
		call := chained.New(noopID, nil).WithAuthorized(inv.Accounts[1], pda.MustSeedFromTag("not_mine"))
		return &program.Output{PostStates: posts, Calls: []*chained.Call{call}}, nil
	}}
	e := newTestEnv(t, outer, middle)
	signer := newFactory(t)
	touched := []codec.Address{{0x1}, {0x2}, {0x3}}

	_, err := e.execute(t, &Message{
		Program:  outerID,
		Accounts: append(append([]codec.Address{}, touched...), signer.Address()),
		Nonces:   []uint64{0},
	}, signer)
	require.ErrorIs(err, chained.ErrSeedMismatch)
	require.Equal(faults.Authorization, faults.KindOf(err))

	for _, addr := range touched {
		require.Equal(&account.Account{}, e.account(t, addr))
		has, err := e.db.Has(storage.AccountKey(addr))
		require.NoError(err)
		require.False(has)
	}
	require.Zero(e.nonce(t, signer.Address()))
}

func TestInvalidTransitionRejected(t *testing.T) {
	require := require.New(t)

	// Writes to an account it never claimed.
	squatterID := codec.NewProgramID("squatter")
	squatter := &funcProgram{id: squatterID, f: func(inv *program.Invocation) (*program.Output, error) {
		post := *inv.Accounts[0].Account.Clone()
		post.Data = []byte{0x1}
		return &program.Output{PostStates: []account.PostState{account.Updated(post)}}, nil
	}}
	e := newTestEnv(t, squatter)
	_, err := e.execute(t, &Message{Program: squatterID, Accounts: []codec.Address{{0x1}}})
	require.ErrorIs(err, account.ErrClaimRequired)
	require.Equal(faults.Authorization, faults.KindOf(err))
}

func TestExecuteBatchMatchesSequential(t *testing.T) {
	require := require.New(t)

	var (
		ctx     = context.Background()
		holders = []*auth.ED25519Factory{newFactory(t), newFactory(t)}
		shared  = codec.Address{0x9}
	)
	seq := newTestEnv(t)
	par := newTestEnv(t)
	for _, e := range []*testEnv{seq, par} {
		e.mint(t, holders[0], codec.Address{0xd}, 200)
		_, err := e.execute(t, transferMsg(e, t, holders[0], holders[1].Address(), 100), holders[0])
		require.NoError(err)
	}

	// Each holder pays the shared recipient twice; the second payment of
	// the first holder overdraws it and fails.
	build := func(e *testEnv) []*Transaction {
		var txs []*Transaction
		amounts := [][]uint64{{60, 60}, {10, 20}}
		for i, h := range holders {
			for j, amount := range amounts[i] {
				msg := transferMsg(e, t, h, shared, amount)
				msg.Nonces = []uint64{msg.Nonces[0] + uint64(j)}
				tx, err := NewTx(msg).Sign(h)
				require.NoError(err)
				txs = append(txs, tx)
			}
		}
		return txs
	}

	var seqResults []*Result
	for _, tx := range build(seq) {
		res, err := seq.processor.Execute(ctx, seq.db, tx)
		if err != nil {
			res = &Result{TxID: tx.ID(), Error: []byte(err.Error())}
		}
		seqResults = append(seqResults, res)
	}
	parResults, err := par.processor.ExecuteBatch(ctx, par.db, build(par))
	require.NoError(err)

	require.Len(parResults, len(seqResults))
	for i := range seqResults {
		require.Equal(seqResults[i].Success, parResults[i].Success, "tx %d", i)
		require.Equal(seqResults[i].TxID, parResults[i].TxID)
	}
	require.False(parResults[1].Success)

	for _, addr := range []codec.Address{holders[0].Address(), holders[1].Address(), shared} {
		require.Equal(seq.account(t, addr), par.account(t, addr))
	}
	require.Equal(uint64(90), par.balance(t, shared))
}

func TestLocalSubmitter(t *testing.T) {
	require := require.New(t)

	e := newTestEnv(t)
	var s Submitter = NewLocalSubmitter(e.processor, e.db)
	tx, err := NewTx(&Message{Program: relayID, Instruction: []byte{2}}).Sign()
	require.NoError(err)
	res, err := s.Submit(context.Background(), tx)
	require.NoError(err)
	require.Equal(tx.ID(), res.TxID)
	require.Equal(2, res.ChainedCalls)
}
