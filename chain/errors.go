// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/faults"
)

var (
	// Validation
	ErrTooManyAccounts     = fmt.Errorf("%w: too many accounts", faults.ErrValidation)
	ErrDuplicateAccount    = fmt.Errorf("%w: duplicate account", faults.ErrValidation)
	ErrInstructionTooLarge = fmt.Errorf("%w: instruction too large", faults.ErrValidation)
	ErrTooManyWitnesses    = fmt.Errorf("%w: too many witnesses", faults.ErrValidation)
	ErrNonceCountMismatch  = fmt.Errorf("%w: nonce count does not match witnesses", faults.ErrValidation)
	ErrDuplicateSigner     = fmt.Errorf("%w: duplicate signer", faults.ErrValidation)
	ErrSignerNotDeclared   = fmt.Errorf("%w: signer account not declared", faults.ErrValidation)
	ErrUndeclaredAccount   = fmt.Errorf("%w: chained call uses undeclared account", faults.ErrValidation)
	ErrMalformedTx         = fmt.Errorf("%w: malformed transaction", faults.ErrValidation)

	// Authorization
	ErrInvalidWitness = fmt.Errorf("%w: invalid witness", faults.ErrAuthorization)

	// State
	ErrNonceMismatch = fmt.Errorf("%w: signer nonce mismatch", faults.ErrState)
	ErrStaleSnapshot = fmt.Errorf("%w: account snapshot does not match current state", faults.ErrState)

	// Resource
	ErrCallDepthExceeded = fmt.Errorf("%w: chained call depth exceeded", faults.ErrResource)
	ErrTooManyCalls      = fmt.Errorf("%w: too many chained calls", faults.ErrResource)
	ErrNonceOverflow     = fmt.Errorf("%w: signer nonce overflow", faults.ErrResource)
)
