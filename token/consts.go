// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "github.com/lssa-labs/treasuryvm/codec"

const Name = "token"

// Note: Instruction TypeIDs are assigned explicitly so reordering never
// changes the wire format.
const (
	NewFungibleDefinitionID uint8 = 0
	TransferID              uint8 = 1
)

// Account data tags.
const (
	DefinitionTag byte = 0x00
	HoldingTag    byte = 0x01
)

var ID = codec.NewProgramID(Name)
