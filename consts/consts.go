// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/utils/units"

const (
	ByteLen   = 1
	BoolLen   = 1
	IDLen     = 32
	IntLen    = 4
	Uint8Len  = 1
	Uint16Len = 2
	Uint64Len = 8

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
	MaxUint64 = ^uint64(0)
)

const (
	// MaxAccountDataSize bounds the opaque payload a single account can hold.
	MaxAccountDataSize = 64 * units.KiB

	// MaxInstructionSize bounds a serialized instruction (top-level or chained).
	MaxInstructionSize = 16 * units.KiB

	// MaxTransactionSize bounds a serialized transaction.
	MaxTransactionSize = 256 * units.KiB

	// MaxTransactionAccounts bounds the accounts a transaction may declare.
	MaxTransactionAccounts = 64

	// MaxWitnesses bounds signer witnesses and approvals in a transaction.
	MaxWitnesses = 32
)

const (
	// MaxMembers is the largest multisig membership.
	MaxMembers = 10

	// MaxThreshold is the largest M in an M-of-N multisig.
	MaxThreshold = 5

	// TokenNameLen is the fixed width of a token name.
	TokenNameLen = 6
)

const (
	// DefaultMaxCallDepth caps chained-call nesting below the top-level call.
	DefaultMaxCallDepth = 8

	// DefaultMaxChainedCalls caps the chained calls executed by one transaction.
	DefaultMaxChainedCalls = 32
)
