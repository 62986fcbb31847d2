// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "github.com/lssa-labs/treasuryvm/crypto/ed25519"

// Verifier checks a single signature. Implementations must be pure.
type Verifier interface {
	Verify(pk ed25519.PublicKey, msg []byte, sig ed25519.Signature) bool
}

var _ Verifier = ED25519Verifier{}

// ED25519Verifier verifies with ZIP-215 rules.
type ED25519Verifier struct{}

func (ED25519Verifier) Verify(pk ed25519.PublicKey, msg []byte, sig ed25519.Signature) bool {
	return ed25519.Verify(msg, pk, sig)
}
