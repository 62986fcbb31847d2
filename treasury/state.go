// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
)

// TreasuryState is stored in the treasury state account.
type TreasuryState struct {
	VaultCount         uint64
	AuthorizedAccounts []codec.Address
}

func (t *TreasuryState) Bytes() ([]byte, error) {
	return borsh.Serialize(*t)
}

func (t *TreasuryState) IsAuthorized(addr codec.Address) bool {
	for _, a := range t.AuthorizedAccounts {
		if a == addr {
			return true
		}
	}
	return false
}

func ParseTreasuryState(b []byte) (*TreasuryState, error) {
	var t TreasuryState
	if err := borsh.Deserialize(&t, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return &t, nil
}

// MultisigState is stored in the multisig state account. Members are
// pairwise distinct and kept in insertion order.
type MultisigState struct {
	Members      []ed25519.PublicKey
	Threshold    uint8
	Nonce        uint64
	Vault        codec.Address
	TokenProgram codec.ProgramID
}

func (m *MultisigState) Bytes() ([]byte, error) {
	return borsh.Serialize(*m)
}

func ParseMultisigState(b []byte) (*MultisigState, error) {
	var m MultisigState
	if err := borsh.Deserialize(&m, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if err := validateMembership(m.Members, m.Threshold); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return &m, nil
}

func (m *MultisigState) IsMember(pk ed25519.PublicKey) bool {
	return m.index(pk) >= 0
}

func (m *MultisigState) index(pk ed25519.PublicKey) int {
	for i, member := range m.Members {
		if member == pk {
			return i
		}
	}
	return -1
}

// validateMembership enforces 1≤|members|≤MaxMembers, 1≤threshold≤MaxThreshold,
// threshold≤|members| and distinct members.
func validateMembership(members []ed25519.PublicKey, threshold uint8) error {
	if len(members) == 0 || len(members) > consts.MaxMembers {
		return fmt.Errorf("%w: %d members, max %d", ErrInvalidMemberCount, len(members), consts.MaxMembers)
	}
	if threshold == 0 || threshold > consts.MaxThreshold {
		return fmt.Errorf("%w: %d, expected 1..%d", ErrInvalidThreshold, threshold, consts.MaxThreshold)
	}
	if int(threshold) > len(members) {
		return fmt.Errorf("%w: %d exceeds %d members", ErrInvalidThreshold, threshold, len(members))
	}
	seen := make(map[ed25519.PublicKey]struct{}, len(members))
	for _, member := range members {
		if _, ok := seen[member]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, member)
		}
		seen[member] = struct{}{}
	}
	return nil
}
