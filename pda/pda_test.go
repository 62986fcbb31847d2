// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import (
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/stretchr/testify/require"

	"github.com/lssa-labs/treasuryvm/codec"
)

func TestDeriveDeterministic(t *testing.T) {
	require := require.New(t)

	program := codec.NewProgramID("treasury")
	seed := MustSeedFromTag("treasury_state")
	require.Equal(Derive(program, seed), Derive(program, seed))
	require.Equal(Derive(program, seed), NewDeriver(hashing.ComputeHash256Array).Derive(program, seed))
}

func TestDeriveDistinct(t *testing.T) {
	require := require.New(t)

	treasury := codec.NewProgramID("treasury")
	token := codec.NewProgramID("token")
	state := MustSeedFromTag("treasury_state")
	multisig := MustSeedFromTag("multisig_state")

	seen := map[codec.Address]struct{}{}
	for _, addr := range []codec.Address{
		Derive(treasury, state),
		Derive(treasury, multisig),
		Derive(token, state),
		Derive(token, multisig),
	} {
		_, ok := seen[addr]
		require.False(ok)
		seen[addr] = struct{}{}
	}
}

func TestSeedFromTag(t *testing.T) {
	require := require.New(t)

	seed, err := SeedFromTag("treasury_state")
	require.NoError(err)
	require.Equal([]byte("treasury_state"), seed[:len("treasury_state")])
	for _, b := range seed[len("treasury_state"):] {
		require.Zero(b)
	}

	_, err = SeedFromTag(strings.Repeat("a", SeedLen))
	require.NoError(err)
	_, err = SeedFromTag(strings.Repeat("a", SeedLen+1))
	require.ErrorIs(err, ErrTagTooLong)
	require.Panics(func() { MustSeedFromTag(strings.Repeat("a", SeedLen+1)) })
}

func TestSeedFromLabeledAddress(t *testing.T) {
	require := require.New(t)

	addr := codec.Address{1, 2, 3, 4}
	vault := SeedFromLabeledAddress("vault", addr)
	require.Equal(vault, SeedFromLabeledAddress("vault", addr))
	require.NotEqual(vault, SeedFromLabeledAddress("multisig_vault", addr))
	require.NotEqual(vault, SeedFromLabeledAddress("vault", codec.Address{1, 2, 3, 5}))
	require.NotEqual(vault, Seed(addr))

	// Feeding a seed back in as an address does not reproduce it.
	tag := MustSeedFromTag("vault")
	require.NotEqual(tag, SeedFromLabeledAddress("vault", codec.Address(tag)))
}

func TestPluggableHash(t *testing.T) {
	require := require.New(t)

	var seen []byte
	d := NewDeriver(func(b []byte) [32]byte {
		seen = b
		return [32]byte{0xff}
	})
	program := codec.NewProgramID("treasury")
	seed := MustSeedFromTag("x")
	require.Equal(codec.Address{0xff}, d.Derive(program, seed))
	require.Len(seen, len(domain)+1+codec.ProgramIDLen+SeedLen)
	require.Equal(program[:], seen[len(domain)+1:len(domain)+1+codec.ProgramIDLen])
}
