// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/faults"
)

var (
	ErrUnknownInstruction   = fmt.Errorf("%w: unknown treasury instruction", faults.ErrValidation)
	ErrMalformedInstruction = fmt.Errorf("%w: malformed treasury instruction", faults.ErrValidation)
	ErrDuplicateAccount     = fmt.Errorf("%w: duplicate account", faults.ErrValidation)
	ErrWrongStateAccount    = fmt.Errorf("%w: state account is not the program state address", faults.ErrValidation)
	ErrInvalidTokenName     = fmt.Errorf("%w: token name must be 1 to 6 bytes", faults.ErrValidation)
	ErrNoSigners            = fmt.Errorf("%w: at least one authorized signer required", faults.ErrValidation)
	ErrDuplicateSigner      = fmt.Errorf("%w: duplicate authorized signer", faults.ErrValidation)
	ErrInvalidMemberCount   = fmt.Errorf("%w: member count out of range", faults.ErrValidation)
	ErrInvalidThreshold     = fmt.Errorf("%w: threshold out of range", faults.ErrValidation)
	ErrDuplicateMember      = fmt.Errorf("%w: duplicate member", faults.ErrValidation)
	ErrTooManyMembers       = fmt.Errorf("%w: member limit reached", faults.ErrValidation)
	ErrWrongVault           = fmt.Errorf("%w: vault is not the multisig vault", faults.ErrValidation)
	ErrWrongRecipient       = fmt.Errorf("%w: recipient does not match instruction", faults.ErrValidation)
	ErrZeroAmount           = fmt.Errorf("%w: amount is zero", faults.ErrValidation)
	ErrReservedAccount      = fmt.Errorf("%w: account is reserved for treasury state", faults.ErrValidation)

	ErrSignerNotListed   = fmt.Errorf("%w: signer is not an authorized account", faults.ErrAuthorization)
	ErrSignerNotSigned   = fmt.Errorf("%w: transaction not signed by signer", faults.ErrAuthorization)
	ErrSignersMismatch   = fmt.Errorf("%w: authorized signers differ from recorded signers", faults.ErrAuthorization)
	ErrInsufficientSigs  = faults.NewRetryable(faults.ErrAuthorization, "insufficient signatures")
	ErrNotProgramAccount = fmt.Errorf("%w: state account not owned by program", faults.ErrAuthorization)

	ErrNotInitialized     = fmt.Errorf("%w: state not initialized", faults.ErrState)
	ErrAlreadyInitialized = fmt.Errorf("%w: state already initialized", faults.ErrState)
	ErrInvalidState       = fmt.Errorf("%w: state cannot be decoded", faults.ErrState)
	ErrInvalidVault       = fmt.Errorf("%w: vault cannot be decoded", faults.ErrState)
	ErrStaleNonce         = fmt.Errorf("%w: stale nonce", faults.ErrState)
	ErrMemberExists       = fmt.Errorf("%w: member already exists", faults.ErrState)
	ErrMemberNotFound     = fmt.Errorf("%w: member not found", faults.ErrState)
	ErrThresholdTooHigh   = fmt.Errorf("%w: threshold unreachable after removal", faults.ErrState)

	ErrWrongAccountCount = fmt.Errorf("%w: wrong number of accounts", faults.ErrResource)
	ErrNonceOverflow     = fmt.Errorf("%w: nonce overflow", faults.ErrResource)
)
