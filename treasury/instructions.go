// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/crypto/ed25519"
)

type Instruction interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)
	Size() int
}

var (
	_ Instruction = (*CreateVault)(nil)
	_ Instruction = (*Send)(nil)
	_ Instruction = (*Deposit)(nil)
	_ Instruction = (*CreateMultisig)(nil)
	_ Instruction = (*Execute)(nil)
	_ Instruction = (*AddMember)(nil)
	_ Instruction = (*RemoveMember)(nil)
	_ Instruction = (*ChangeThreshold)(nil)
)

// CreateVault creates a token and mints its supply into a treasury vault.
type CreateVault struct {
	TokenName     string          `json:"tokenName"`
	InitialSupply uint64          `json:"initialSupply"`
	TokenProgram  codec.ProgramID `json:"tokenProgram"`

	// AuthorizedSigners may later Send from treasury vaults.
	AuthorizedSigners []codec.Address `json:"authorizedSigners"`
}

func (*CreateVault) GetTypeID() uint8 {
	return CreateVaultID
}

func (c *CreateVault) Size() int {
	return consts.ByteLen + codec.StringLen(c.TokenName) + consts.Uint64Len +
		codec.ProgramIDLen + consts.Uint8Len + len(c.AuthorizedSigners)*codec.AddressLen
}

func (c *CreateVault) Marshal(p *codec.Packer) {
	p.PackByte(CreateVaultID)
	p.PackString(c.TokenName)
	p.PackUint64(c.InitialSupply)
	p.PackProgramID(c.TokenProgram)
	p.PackAddresses(c.AuthorizedSigners)
}

// Send transfers vault tokens to a recipient on behalf of an authorized
// signer.
type Send struct {
	Amount       uint64          `json:"amount"`
	TokenProgram codec.ProgramID `json:"tokenProgram"`
}

func (*Send) GetTypeID() uint8 {
	return SendID
}

func (*Send) Size() int {
	return consts.ByteLen + consts.Uint64Len + codec.ProgramIDLen
}

func (s *Send) Marshal(p *codec.Packer) {
	p.PackByte(SendID)
	p.PackUint64(s.Amount)
	p.PackProgramID(s.TokenProgram)
}

// Deposit transfers tokens from a signer's holding into a vault.
type Deposit struct {
	Amount       uint64          `json:"amount"`
	TokenProgram codec.ProgramID `json:"tokenProgram"`
}

func (*Deposit) GetTypeID() uint8 {
	return DepositID
}

func (*Deposit) Size() int {
	return consts.ByteLen + consts.Uint64Len + codec.ProgramIDLen
}

func (d *Deposit) Marshal(p *codec.Packer) {
	p.PackByte(DepositID)
	p.PackUint64(d.Amount)
	p.PackProgramID(d.TokenProgram)
}

// CreateMultisig initializes the M-of-N multisig.
type CreateMultisig struct {
	Threshold    uint8               `json:"threshold"`
	Members      []ed25519.PublicKey `json:"members"`
	TokenProgram codec.ProgramID     `json:"tokenProgram"`
}

func (*CreateMultisig) GetTypeID() uint8 {
	return CreateMultisigID
}

func (c *CreateMultisig) Size() int {
	return consts.ByteLen + consts.Uint8Len + consts.Uint8Len +
		len(c.Members)*ed25519.PublicKeyLen + codec.ProgramIDLen
}

func (c *CreateMultisig) Marshal(p *codec.Packer) {
	p.PackByte(CreateMultisigID)
	p.PackByte(c.Threshold)
	packMembers(p, c.Members)
	p.PackProgramID(c.TokenProgram)
}

// Execute pays Amount from the multisig vault to Recipient.
type Execute struct {
	Recipient codec.Address `json:"recipient"`
	Amount    uint64        `json:"amount"`
	Nonce     uint64        `json:"nonce"`
}

func (*Execute) GetTypeID() uint8 {
	return ExecuteID
}

func (*Execute) Size() int {
	return consts.ByteLen + codec.AddressLen + 2*consts.Uint64Len
}

func (e *Execute) Marshal(p *codec.Packer) {
	p.PackByte(ExecuteID)
	p.PackAddress(e.Recipient)
	p.PackUint64(e.Amount)
	p.PackUint64(e.Nonce)
}

type AddMember struct {
	Member ed25519.PublicKey `json:"member"`
	Nonce  uint64            `json:"nonce"`
}

func (*AddMember) GetTypeID() uint8 {
	return AddMemberID
}

func (*AddMember) Size() int {
	return consts.ByteLen + ed25519.PublicKeyLen + consts.Uint64Len
}

func (a *AddMember) Marshal(p *codec.Packer) {
	p.PackByte(AddMemberID)
	p.PackFixedBytes(a.Member[:])
	p.PackUint64(a.Nonce)
}

type RemoveMember struct {
	Member ed25519.PublicKey `json:"member"`
	Nonce  uint64            `json:"nonce"`
}

func (*RemoveMember) GetTypeID() uint8 {
	return RemoveMemberID
}

func (*RemoveMember) Size() int {
	return consts.ByteLen + ed25519.PublicKeyLen + consts.Uint64Len
}

func (r *RemoveMember) Marshal(p *codec.Packer) {
	p.PackByte(RemoveMemberID)
	p.PackFixedBytes(r.Member[:])
	p.PackUint64(r.Nonce)
}

type ChangeThreshold struct {
	Threshold uint8  `json:"threshold"`
	Nonce     uint64 `json:"nonce"`
}

func (*ChangeThreshold) GetTypeID() uint8 {
	return ChangeThresholdID
}

func (*ChangeThreshold) Size() int {
	return consts.ByteLen + consts.Uint8Len + consts.Uint64Len
}

func (c *ChangeThreshold) Marshal(p *codec.Packer) {
	p.PackByte(ChangeThresholdID)
	p.PackByte(c.Threshold)
	p.PackUint64(c.Nonce)
}

// Encode returns the wire form of [ix].
func Encode(ix Instruction) []byte {
	p := codec.NewWriter(ix.Size(), consts.MaxInstructionSize)
	ix.Marshal(p)
	return p.Bytes()
}

// Decode parses an instruction produced by Encode. Arguments are only
// checked for well-formedness here; range checks happen in the handlers.
func Decode(b []byte) (Instruction, error) {
	p := codec.NewReader(b, consts.MaxInstructionSize)
	var ix Instruction
	switch typeID := p.UnpackByte(); typeID {
	case CreateVaultID:
		c := &CreateVault{TokenName: p.UnpackString(false)}
		c.InitialSupply = p.UnpackUint64(false)
		p.UnpackProgramID(true, &c.TokenProgram)
		c.AuthorizedSigners = p.UnpackAddresses(MaxAuthorizedSigners, false)
		ix = c
	case SendID:
		s := &Send{Amount: p.UnpackUint64(false)}
		p.UnpackProgramID(true, &s.TokenProgram)
		ix = s
	case DepositID:
		d := &Deposit{Amount: p.UnpackUint64(false)}
		p.UnpackProgramID(true, &d.TokenProgram)
		ix = d
	case CreateMultisigID:
		c := &CreateMultisig{Threshold: p.UnpackByte()}
		c.Members = unpackMembers(p)
		p.UnpackProgramID(true, &c.TokenProgram)
		ix = c
	case ExecuteID:
		e := &Execute{}
		p.UnpackAddress(true, &e.Recipient)
		e.Amount = p.UnpackUint64(false)
		e.Nonce = p.UnpackUint64(false)
		ix = e
	case AddMemberID:
		a := &AddMember{Member: unpackMember(p)}
		a.Nonce = p.UnpackUint64(false)
		ix = a
	case RemoveMemberID:
		r := &RemoveMember{Member: unpackMember(p)}
		r.Nonce = p.UnpackUint64(false)
		ix = r
	case ChangeThresholdID:
		c := &ChangeThreshold{Threshold: p.UnpackByte()}
		c.Nonce = p.UnpackUint64(false)
		ix = c
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, typeID)
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInstruction, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInstruction, codec.ErrExtraBytes)
	}
	return ix, nil
}

func packMembers(p *codec.Packer, members []ed25519.PublicKey) {
	if len(members) > int(consts.MaxUint8) {
		p.AddErr(codec.ErrTooManyItems)
		return
	}
	p.PackByte(uint8(len(members)))
	for _, m := range members {
		p.PackFixedBytes(m[:])
	}
}

func unpackMembers(p *codec.Packer) []ed25519.PublicKey {
	n := int(p.UnpackByte())
	if p.Err() != nil || n == 0 {
		return nil
	}
	members := make([]ed25519.PublicKey, n)
	for i := range members {
		members[i] = unpackMember(p)
	}
	return members
}

func unpackMember(p *codec.Packer) ed25519.PublicKey {
	var b []byte
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &b)
	var pk ed25519.PublicKey
	copy(pk[:], b)
	return pk
}
