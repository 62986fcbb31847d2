// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

// Note: IDs are assigned explicitly so adding a scheme never remaps an
// existing one.
const (
	ED25519ID uint8 = 0

	ED25519Key = "ed25519"
)
