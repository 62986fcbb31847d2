// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import "github.com/lssa-labs/treasuryvm/codec"

const Name = "treasury"

// Note: Instruction TypeIDs are assigned explicitly so reordering never
// changes the wire format.
const (
	CreateVaultID     uint8 = 0
	SendID            uint8 = 1
	DepositID         uint8 = 2
	CreateMultisigID  uint8 = 3
	ExecuteID         uint8 = 4
	AddMemberID       uint8 = 5
	RemoveMemberID    uint8 = 6
	ChangeThresholdID uint8 = 7
)

const (
	TreasuryStateTag = "treasury_state"
	MultisigStateTag = "multisig_state"

	// Labels of seeds derived from another account's id.
	VaultSeedLabel         = "vault"
	MultisigVaultSeedLabel = "multisig_vault"

	MaxAuthorizedSigners = 16

	approvalDomain = "treasuryvm/multisig/v1"
)

var ID = codec.NewProgramID(Name)
