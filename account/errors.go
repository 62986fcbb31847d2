// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/faults"
)

var (
	ErrDataTooLarge = fmt.Errorf("%w: account data too large", faults.ErrValidation)

	ErrNonceChanged   = fmt.Errorf("%w: program modified account nonce", faults.ErrAuthorization)
	ErrAlreadyClaimed = fmt.Errorf("%w: account already claimed", faults.ErrAuthorization)
	ErrClaimOwner     = fmt.Errorf("%w: claim sets foreign owner", faults.ErrAuthorization)
	ErrClaimRequired  = fmt.Errorf("%w: unclaimed account modified without claim", faults.ErrAuthorization)
	ErrOwnerMismatch  = fmt.Errorf("%w: account not owned by program", faults.ErrAuthorization)
	ErrOwnerChanged   = fmt.Errorf("%w: program modified account owner", faults.ErrAuthorization)

	ErrPostStateCount      = fmt.Errorf("%w: post state count mismatch", faults.ErrResource)
	ErrBalanceNotConserved = fmt.Errorf("%w: balance not conserved", faults.ErrResource)
)
