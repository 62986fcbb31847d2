// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrUnknownToken    = errors.New("unknown token")
	ErrInvalidArgs     = errors.New("invalid arguments")
	ErrNoMultisig      = errors.New("multisig not created")
	ErrMissingApproval = errors.New("no approvers given")
	ErrInputEmpty      = errors.New("input is empty")
	ErrInvalidChoice   = errors.New("invalid choice")
)
