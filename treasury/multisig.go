// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chained"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
	"github.com/lssa-labs/treasuryvm/program"
	"github.com/lssa-labs/treasuryvm/token"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// ApprovalMessage is the payload multisig members sign for a privileged
// instruction. The encoded instruction carries the nonce, so an approval is
// only valid once.
func ApprovalMessage(programID codec.ProgramID, state codec.Address, instruction []byte) []byte {
	size := len(approvalDomain) + codec.ProgramIDLen + codec.AddressLen + codec.BytesLen(instruction)
	p := codec.NewWriter(size, size)
	p.PackFixedBytes([]byte(approvalDomain))
	p.PackProgramID(programID)
	p.PackAddress(state)
	p.PackBytes(instruction)
	return p.Bytes()
}

// CountApprovals returns the number of distinct current members with a
// valid signature over [msg]. Invalid signatures and non-members are
// skipped; they never invalidate the rest of the set.
func CountApprovals(v auth.Verifier, members []ed25519.PublicKey, msg []byte, approvals []*auth.Witness) int {
	approved := make(map[ed25519.PublicKey]struct{}, len(approvals))
	for _, w := range approvals {
		if _, ok := approved[w.Signer]; ok {
			continue
		}
		if !slices.Contains(members, w.Signer) {
			continue
		}
		if !v.Verify(w.Signer, msg, w.Signature) {
			continue
		}
		approved[w.Signer] = struct{}{}
	}
	return len(approved)
}

// createMultisig expects [multisig_state].
func (p *Program) createMultisig(inv *program.Invocation, ix *CreateMultisig) (*program.Output, error) {
	if err := validateMembership(ix.Members, ix.Threshold); err != nil {
		return nil, err
	}
	stateAcct := inv.Accounts[0]
	if stateAcct.ID != p.addrs.MultisigState() {
		return nil, fmt.Errorf("%w: %s", ErrWrongStateAccount, stateAcct.ID)
	}
	if stateAcct.Account.Claimed() || len(stateAcct.Account.Data) != 0 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInitialized, stateAcct.ID)
	}

	state := &MultisigState{
		Members:      slices.Clone(ix.Members),
		Threshold:    ix.Threshold,
		Vault:        p.deriver.Derive(p.id, MultisigVaultSeed(stateAcct.ID)),
		TokenProgram: ix.TokenProgram,
	}
	data, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	post := *stateAcct.Account.Clone()
	post.Data = data
	return &program.Output{PostStates: []account.PostState{account.Claimed(post)}}, nil
}

// authorize loads the active multisig and checks, in order, that [nonce]
// is current and that enough members approved the invocation.
func (p *Program) authorize(inv *program.Invocation, nonce uint64) (*MultisigState, error) {
	stateAcct := inv.Accounts[0]
	if stateAcct.ID != p.addrs.MultisigState() {
		return nil, fmt.Errorf("%w: %s", ErrWrongStateAccount, stateAcct.ID)
	}
	if !stateAcct.Account.Claimed() {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, stateAcct.ID)
	}
	if stateAcct.Account.Owner != p.id {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrNotProgramAccount, stateAcct.ID, stateAcct.Account.Owner)
	}
	state, err := ParseMultisigState(stateAcct.Account.Data)
	if err != nil {
		return nil, err
	}
	if nonce != state.Nonce {
		return nil, fmt.Errorf("%w: signed %d, current %d", ErrStaleNonce, nonce, state.Nonce)
	}
	msg := ApprovalMessage(p.id, stateAcct.ID, inv.Instruction)
	if n := CountApprovals(p.verifier, state.Members, msg, inv.Approvals); n < int(state.Threshold) {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientSigs, state.Threshold, n)
	}
	return state, nil
}

// commit bumps the nonce and returns the updated state account.
func (*Program) commit(stateAcct *account.WithMeta, state *MultisigState) (account.PostState, error) {
	nonce, err := smath.Add(state.Nonce, 1)
	if err != nil {
		return account.PostState{}, fmt.Errorf("%w: %w", ErrNonceOverflow, err)
	}
	state.Nonce = nonce
	data, err := state.Bytes()
	if err != nil {
		return account.PostState{}, err
	}
	post := *stateAcct.Account.Clone()
	post.Data = data
	return account.Updated(post), nil
}

// execute expects [multisig_state, vault_holding, recipient].
func (p *Program) execute(inv *program.Invocation, ix *Execute) (*program.Output, error) {
	state, err := p.authorize(inv, ix.Nonce)
	if err != nil {
		return nil, err
	}
	stateAcct, vault, recipient := inv.Accounts[0], inv.Accounts[1], inv.Accounts[2]
	if vault.ID != state.Vault {
		return nil, fmt.Errorf("%w: %s", ErrWrongVault, vault.ID)
	}
	if recipient.ID != ix.Recipient {
		return nil, fmt.Errorf("%w: %s != %s", ErrWrongRecipient, recipient.ID, ix.Recipient)
	}
	if ix.Amount == 0 {
		return nil, ErrZeroAmount
	}
	statePost, err := p.commit(&stateAcct, state)
	if err != nil {
		return nil, err
	}

	call := chained.New(state.TokenProgram, token.Encode(&token.Transfer{Amount: ix.Amount})).
		WithAuthorized(vault, MultisigVaultSeed(stateAcct.ID)).
		With(recipient)
	posts := program.Unchanged(inv.Accounts)
	posts[0] = statePost
	return &program.Output{PostStates: posts, Calls: []*chained.Call{call}}, nil
}

// addMember expects [multisig_state].
func (p *Program) addMember(inv *program.Invocation, ix *AddMember) (*program.Output, error) {
	state, err := p.authorize(inv, ix.Nonce)
	if err != nil {
		return nil, err
	}
	if state.IsMember(ix.Member) {
		return nil, fmt.Errorf("%w: %s", ErrMemberExists, ix.Member)
	}
	if len(state.Members) >= consts.MaxMembers {
		return nil, fmt.Errorf("%w: %d", ErrTooManyMembers, consts.MaxMembers)
	}
	state.Members = append(state.Members, ix.Member)
	post, err := p.commit(&inv.Accounts[0], state)
	if err != nil {
		return nil, err
	}
	return &program.Output{PostStates: []account.PostState{post}}, nil
}

// removeMember expects [multisig_state].
func (p *Program) removeMember(inv *program.Invocation, ix *RemoveMember) (*program.Output, error) {
	state, err := p.authorize(inv, ix.Nonce)
	if err != nil {
		return nil, err
	}
	i := state.index(ix.Member)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, ix.Member)
	}
	if len(state.Members)-1 < int(state.Threshold) {
		return nil, fmt.Errorf("%w: %d members left, threshold %d", ErrThresholdTooHigh, len(state.Members)-1, state.Threshold)
	}
	state.Members = slices.Delete(state.Members, i, i+1)
	post, err := p.commit(&inv.Accounts[0], state)
	if err != nil {
		return nil, err
	}
	return &program.Output{PostStates: []account.PostState{post}}, nil
}

// changeThreshold expects [multisig_state]. Approvals are counted against
// the old threshold.
func (p *Program) changeThreshold(inv *program.Invocation, ix *ChangeThreshold) (*program.Output, error) {
	state, err := p.authorize(inv, ix.Nonce)
	if err != nil {
		return nil, err
	}
	if ix.Threshold == 0 || ix.Threshold > consts.MaxThreshold {
		return nil, fmt.Errorf("%w: %d, expected 1..%d", ErrInvalidThreshold, ix.Threshold, consts.MaxThreshold)
	}
	if int(ix.Threshold) > len(state.Members) {
		return nil, fmt.Errorf("%w: %d exceeds %d members", ErrInvalidThreshold, ix.Threshold, len(state.Members))
	}
	state.Threshold = ix.Threshold
	post, err := p.commit(&inv.Accounts[0], state)
	if err != nil {
		return nil, err
	}
	return &program.Output{PostStates: []account.PostState{post}}, nil
}
