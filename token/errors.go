// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/faults"
)

var (
	ErrUnknownInstruction   = fmt.Errorf("%w: unknown token instruction", faults.ErrValidation)
	ErrMalformedInstruction = fmt.Errorf("%w: malformed token instruction", faults.ErrValidation)
	ErrNameTooLong        = fmt.Errorf("%w: token name too long", faults.ErrValidation)
	ErrZeroAmount         = fmt.Errorf("%w: amount is zero", faults.ErrValidation)
	ErrSelfTransfer       = fmt.Errorf("%w: sender is recipient", faults.ErrValidation)
	ErrDefinitionMismatch = fmt.Errorf("%w: holding belongs to another definition", faults.ErrValidation)

	ErrNotAuthorized = fmt.Errorf("%w: holding not authorized", faults.ErrAuthorization)

	ErrAlreadyInitialized = fmt.Errorf("%w: account already initialized", faults.ErrState)
	ErrInvalidHolding     = fmt.Errorf("%w: account is not a token holding", faults.ErrState)
	ErrInvalidDefinition  = fmt.Errorf("%w: account is not a token definition", faults.ErrState)

	ErrWrongAccountCount   = fmt.Errorf("%w: wrong number of accounts", faults.ErrResource)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient token balance", faults.ErrResource)
	ErrBalanceOverflow     = fmt.Errorf("%w: token balance overflow", faults.ErrResource)
)
