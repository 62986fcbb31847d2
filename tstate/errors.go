// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/faults"
)

var (
	ErrKeyNotSpecified = fmt.Errorf("%w: key not specified", faults.ErrValidation)
	ErrNoPermission    = fmt.Errorf("%w: insufficient key permission", faults.ErrValidation)
)
