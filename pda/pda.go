// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pda derives program-derived addresses: account ids that no key
// controls and that only the deriving program may authorize.
package pda

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/lssa-labs/treasuryvm/codec"
)

const (
	SeedLen = 32

	domain     = "treasuryvm/pda/v1"
	seedDomain = "treasuryvm/seed/v1"
)

var ErrTagTooLong = errors.New("seed tag exceeds 32 bytes")

// Seed is the 32-byte input that, together with the authority program,
// determines a derived address.
type Seed [SeedLen]byte

// SeedFromTag right-pads [tag] with zero bytes.
func SeedFromTag(tag string) (Seed, error) {
	var s Seed
	if len(tag) > SeedLen {
		return s, ErrTagTooLong
	}
	copy(s[:], tag)
	return s, nil
}

// MustSeedFromTag is SeedFromTag for compile-time constant tags.
func MustSeedFromTag(tag string) Seed {
	s, err := SeedFromTag(tag)
	if err != nil {
		panic(err)
	}
	return s
}

// SeedFromLabeledAddress hashes [addr] under [label]. Seeds with different
// labels never coincide, and none of them equals a tag seed.
func SeedFromLabeledAddress(label string, addr codec.Address) Seed {
	b := make([]byte, 0, len(seedDomain)+len(label)+2+codec.AddressLen)
	b = append(b, seedDomain...)
	b = append(b, 0x00)
	b = append(b, label...)
	b = append(b, 0x00)
	b = append(b, addr[:]...)
	return Seed(hashing.ComputeHash256Array(b))
}

// HashFunc is a collision-resistant 256-bit hash.
type HashFunc func([]byte) [32]byte

// Deriver computes derived addresses with a fixed hash function.
type Deriver struct {
	hash HashFunc
}

// NewDeriver returns a Deriver using [h]. A nil [h] selects SHA-256.
func NewDeriver(h HashFunc) *Deriver {
	if h == nil {
		h = hashing.ComputeHash256Array
	}
	return &Deriver{hash: h}
}

// Derive returns H(domain ‖ 0x00 ‖ authority ‖ seed). The result is a pure
// function of its inputs.
func (d *Deriver) Derive(authority codec.ProgramID, seed Seed) codec.Address {
	b := make([]byte, 0, len(domain)+1+codec.ProgramIDLen+SeedLen)
	b = append(b, domain...)
	b = append(b, 0x00)
	b = append(b, authority[:]...)
	b = append(b, seed[:]...)
	return codec.Address(d.hash(b))
}

var defaultDeriver = NewDeriver(nil)

// Default returns the SHA-256 deriver.
func Default() *Deriver {
	return defaultDeriver
}

// Derive derives with the default deriver.
func Derive(authority codec.ProgramID, seed Seed) codec.Address {
	return defaultDeriver.Derive(authority, seed)
}
