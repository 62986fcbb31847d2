// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/pda"
)

var (
	treasuryStateSeed = pda.MustSeedFromTag(TreasuryStateTag)
	multisigStateSeed = pda.MustSeedFromTag(MultisigStateTag)
)

// TreasuryStateSeed is the constant seed of the treasury state account.
func TreasuryStateSeed() pda.Seed {
	return treasuryStateSeed
}

// VaultSeed is the seed of the vault holding for [definition]. It is
// labeled so no definition id can select the state accounts or the
// multisig vault.
func VaultSeed(definition codec.Address) pda.Seed {
	return pda.SeedFromLabeledAddress(VaultSeedLabel, definition)
}

// MultisigStateSeed is the constant seed of the multisig state account.
func MultisigStateSeed() pda.Seed {
	return multisigStateSeed
}

// MultisigVaultSeed is the seed of the vault controlled by the multisig
// stored at [state].
func MultisigVaultSeed(state codec.Address) pda.Seed {
	return pda.SeedFromLabeledAddress(MultisigVaultSeedLabel, state)
}

// Addresses computes the accounts derived by a treasury program.
type Addresses struct {
	d       *pda.Deriver
	program codec.ProgramID
}

func NewAddresses(d *pda.Deriver, program codec.ProgramID) *Addresses {
	return &Addresses{d: d, program: program}
}

func (a *Addresses) TreasuryState() codec.Address {
	return a.d.Derive(a.program, treasuryStateSeed)
}

func (a *Addresses) Vault(definition codec.Address) codec.Address {
	return a.d.Derive(a.program, VaultSeed(definition))
}

func (a *Addresses) MultisigState() codec.Address {
	return a.d.Derive(a.program, multisigStateSeed)
}

func (a *Addresses) MultisigVault() codec.Address {
	return a.d.Derive(a.program, MultisigVaultSeed(a.MultisigState()))
}

// Reserved reports whether [addr] is one of the program's fixed accounts.
func (a *Addresses) Reserved(addr codec.Address) bool {
	return addr == a.TreasuryState() || addr == a.MultisigState() || addr == a.MultisigVault()
}
