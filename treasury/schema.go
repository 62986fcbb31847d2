// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"encoding/json"

	"github.com/lssa-labs/treasuryvm/codec"
)

// AccountSpec describes one positional account of an instruction.
type AccountSpec struct {
	Name     string `json:"name"`
	Writable bool   `json:"writable"`
	// Signer accounts must be authorized by a transaction witness.
	Signer bool `json:"signer"`
	// PDA names the seed the account is derived from, if any.
	PDA string `json:"pda,omitempty"`
}

type ArgSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type InstructionSpec struct {
	Name     string        `json:"name"`
	TypeID   uint8         `json:"typeId"`
	Accounts []AccountSpec `json:"accounts"`
	Args     []ArgSpec     `json:"args"`
	// Privileged instructions need multisig approvals.
	Privileged bool `json:"privileged,omitempty"`
}

// Schema lists every treasury instruction in type id order.
var Schema = []InstructionSpec{
	{
		Name:   "create_vault",
		TypeID: CreateVaultID,
		Accounts: []AccountSpec{
			{Name: "treasury_state", Writable: true, PDA: TreasuryStateTag},
			{Name: "token_definition", Writable: true},
			{Name: "vault_holding", Writable: true, PDA: "token_definition"},
		},
		Args: []ArgSpec{
			{Name: "token_name", Type: "string"},
			{Name: "initial_supply", Type: "u64"},
			{Name: "token_program", Type: "program_id"},
			{Name: "authorized_signers", Type: "vec<address>"},
		},
	},
	{
		Name:   "send",
		TypeID: SendID,
		Accounts: []AccountSpec{
			{Name: "treasury_state", PDA: TreasuryStateTag},
			{Name: "vault_holding", Writable: true, PDA: "vault_holding.definition"},
			{Name: "recipient", Writable: true},
			{Name: "signer", Signer: true},
		},
		Args: []ArgSpec{
			{Name: "amount", Type: "u64"},
			{Name: "token_program", Type: "program_id"},
		},
	},
	{
		Name:   "deposit",
		TypeID: DepositID,
		Accounts: []AccountSpec{
			{Name: "treasury_state", PDA: TreasuryStateTag},
			{Name: "sender_holding", Writable: true, Signer: true},
			{Name: "vault_holding", Writable: true},
		},
		Args: []ArgSpec{
			{Name: "amount", Type: "u64"},
			{Name: "token_program", Type: "program_id"},
		},
	},
	{
		Name:   "create_multisig",
		TypeID: CreateMultisigID,
		Accounts: []AccountSpec{
			{Name: "multisig_state", Writable: true, PDA: MultisigStateTag},
		},
		Args: []ArgSpec{
			{Name: "threshold", Type: "u8"},
			{Name: "members", Type: "vec<public_key>"},
			{Name: "token_program", Type: "program_id"},
		},
	},
	{
		Name:   "execute",
		TypeID: ExecuteID,
		Accounts: []AccountSpec{
			{Name: "multisig_state", Writable: true, PDA: MultisigStateTag},
			{Name: "vault_holding", Writable: true, PDA: "multisig_state"},
			{Name: "recipient", Writable: true},
		},
		Args: []ArgSpec{
			{Name: "recipient", Type: "address"},
			{Name: "amount", Type: "u64"},
			{Name: "nonce", Type: "u64"},
		},
		Privileged: true,
	},
	{
		Name:   "add_member",
		TypeID: AddMemberID,
		Accounts: []AccountSpec{
			{Name: "multisig_state", Writable: true, PDA: MultisigStateTag},
		},
		Args: []ArgSpec{
			{Name: "member", Type: "public_key"},
			{Name: "nonce", Type: "u64"},
		},
		Privileged: true,
	},
	{
		Name:   "remove_member",
		TypeID: RemoveMemberID,
		Accounts: []AccountSpec{
			{Name: "multisig_state", Writable: true, PDA: MultisigStateTag},
		},
		Args: []ArgSpec{
			{Name: "member", Type: "public_key"},
			{Name: "nonce", Type: "u64"},
		},
		Privileged: true,
	},
	{
		Name:   "change_threshold",
		TypeID: ChangeThresholdID,
		Accounts: []AccountSpec{
			{Name: "multisig_state", Writable: true, PDA: MultisigStateTag},
		},
		Args: []ArgSpec{
			{Name: "threshold", Type: "u8"},
			{Name: "nonce", Type: "u64"},
		},
		Privileged: true,
	},
}

// Lookup returns the schema entry for [typeID].
func Lookup(typeID uint8) (*InstructionSpec, bool) {
	if int(typeID) >= len(Schema) {
		return nil, false
	}
	return &Schema[typeID], true
}

// IDL is the JSON description of the program's instruction surface.
type IDL struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	ProgramID    codec.ProgramID   `json:"programId"`
	Instructions []InstructionSpec `json:"instructions"`
}

func NewIDL(version string, programID codec.ProgramID) *IDL {
	return &IDL{
		Name:         Name,
		Version:      version,
		ProgramID:    programID,
		Instructions: Schema,
	}
}

func (i *IDL) JSON() ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}
