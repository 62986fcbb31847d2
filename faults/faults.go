// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package faults defines the four classes every transaction failure falls
// into. Packages declare their own sentinel errors by wrapping one of the
// class sentinels, for example:
//
//	ErrStaleNonce = fmt.Errorf("%w: stale nonce", faults.ErrState)
//
// and add call-site context with a further %w, so [errors.Is] matches both
// the specific sentinel and its class.
package faults

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed or out-of-range arguments.
	ErrValidation = errors.New("validation error")

	// ErrAuthorization covers missing or invalid signatures, seed
	// derivation mismatches and owner mismatches.
	ErrAuthorization = errors.New("authorization error")

	// ErrState covers conflicts with current ledger state: duplicate or
	// missing members, stale nonces, uninitialized accounts.
	ErrState = errors.New("state error")

	// ErrResource covers insufficient balances, account-count mismatches
	// and exhausted execution limits.
	ErrResource = errors.New("resource error")
)

type Kind uint8

const (
	Unknown Kind = iota
	Validation
	Authorization
	State
	Resource
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case State:
		return "state"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// KindOf returns the class of [err], or [Unknown] if it wraps none of the
// class sentinels.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return Unknown
	case errors.Is(err, ErrValidation):
		return Validation
	case errors.Is(err, ErrAuthorization):
		return Authorization
	case errors.Is(err, ErrState):
		return State
	case errors.Is(err, ErrResource):
		return Resource
	default:
		return Unknown
	}
}

// ErrRetryable marks failures that can be resolved by resubmitting the same
// payload with more witnesses.
var ErrRetryable = errors.New("retryable")

// Retryable reports whether resubmitting the identical payload (with more
// witnesses attached) may succeed. Nonce and seed failures are never
// retryable as-is.
func Retryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

// New returns a sentinel of class [class] with message [msg].
func New(class error, msg string) error {
	return fmt.Errorf("%w: %s", class, msg)
}

// NewRetryable returns a retryable sentinel of class [class].
func NewRetryable(class error, msg string) error {
	return fmt.Errorf("%w: %w: %s", class, ErrRetryable, msg)
}
