// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
)

// ValidateTransition checks that [writer] may move [pre] to [post].
//
// Ownership rules:
//   - a program never changes an account's nonce
//   - a claim is only valid on an unclaimed account and the proposed owner
//     must be unset or the writer
//   - an unchanged account passes through regardless of owner
//   - any other change requires the writer to already own the account and
//     to leave the owner untouched
func ValidateTransition(writer codec.ProgramID, pre *WithMeta, post *PostState) error {
	if len(post.Account.Data) > consts.MaxAccountDataSize {
		return fmt.Errorf("%w: %s", ErrDataTooLarge, pre.ID)
	}
	if post.Account.Nonce != pre.Account.Nonce {
		return fmt.Errorf("%w: %s", ErrNonceChanged, pre.ID)
	}
	if post.Claim {
		if pre.Account.Claimed() {
			return fmt.Errorf("%w: %s owned by %s", ErrAlreadyClaimed, pre.ID, pre.Account.Owner)
		}
		if !post.Account.Owner.IsEmpty() && post.Account.Owner != writer {
			return fmt.Errorf("%w: %s", ErrClaimOwner, pre.ID)
		}
		return nil
	}
	if post.Account.Equal(&pre.Account) {
		return nil
	}
	if !pre.Account.Claimed() {
		return fmt.Errorf("%w: %s", ErrClaimRequired, pre.ID)
	}
	if pre.Account.Owner != writer {
		return fmt.Errorf("%w: %s owned by %s", ErrOwnerMismatch, pre.ID, pre.Account.Owner)
	}
	if post.Account.Owner != pre.Account.Owner {
		return fmt.Errorf("%w: %s", ErrOwnerChanged, pre.ID)
	}
	return nil
}

// ValidateOutput checks a full program output: one post state per input
// account, each transition allowed and total balance conserved.
func ValidateOutput(writer codec.ProgramID, pres []WithMeta, posts []PostState) error {
	if len(pres) != len(posts) {
		return fmt.Errorf("%w: got %d, expected %d", ErrPostStateCount, len(posts), len(pres))
	}
	var (
		before, after uint64
		err           error
	)
	for i := range pres {
		if err := ValidateTransition(writer, &pres[i], &posts[i]); err != nil {
			return err
		}
		before, err = smath.Add(before, pres[i].Account.Balance)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBalanceNotConserved, err)
		}
		after, err = smath.Add(after, posts[i].Account.Balance)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBalanceNotConserved, err)
		}
	}
	if before != after {
		return fmt.Errorf("%w: %d != %d", ErrBalanceNotConserved, before, after)
	}
	return nil
}
