// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
)

type Instruction interface {
	GetTypeID() uint8
	Marshal(p *codec.Packer)
	Size() int
}

var (
	_ Instruction = (*NewFungibleDefinition)(nil)
	_ Instruction = (*Transfer)(nil)
)

// NewFungibleDefinition creates a definition and mints TotalSupply into a
// fresh holding.
type NewFungibleDefinition struct {
	Name        [consts.TokenNameLen]byte `json:"name"`
	TotalSupply uint64                    `json:"totalSupply"`
}

// NewDefinition builds a NewFungibleDefinition, rejecting names longer than
// six bytes.
func NewDefinition(name string, supply uint64) (*NewFungibleDefinition, error) {
	if len(name) > consts.TokenNameLen {
		return nil, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	ix := &NewFungibleDefinition{TotalSupply: supply}
	copy(ix.Name[:], name)
	return ix, nil
}

func (*NewFungibleDefinition) GetTypeID() uint8 {
	return NewFungibleDefinitionID
}

func (*NewFungibleDefinition) Size() int {
	return consts.ByteLen + consts.TokenNameLen + consts.Uint64Len
}

func (n *NewFungibleDefinition) Marshal(p *codec.Packer) {
	p.PackByte(NewFungibleDefinitionID)
	p.PackFixedBytes(n.Name[:])
	p.PackUint64(n.TotalSupply)
}

// Transfer moves Amount from the first account to the second.
type Transfer struct {
	Amount uint64 `json:"amount"`
}

func (*Transfer) GetTypeID() uint8 {
	return TransferID
}

func (*Transfer) Size() int {
	return consts.ByteLen + consts.Uint64Len
}

func (t *Transfer) Marshal(p *codec.Packer) {
	p.PackByte(TransferID)
	p.PackUint64(t.Amount)
}

// Encode returns the wire form of [ix].
func Encode(ix Instruction) []byte {
	p := codec.NewWriter(ix.Size(), ix.Size())
	ix.Marshal(p)
	return p.Bytes()
}

// Decode parses an instruction produced by Encode.
func Decode(b []byte) (Instruction, error) {
	p := codec.NewReader(b, consts.MaxInstructionSize)
	var ix Instruction
	switch typeID := p.UnpackByte(); typeID {
	case NewFungibleDefinitionID:
		var n NewFungibleDefinition
		var name []byte
		p.UnpackFixedBytes(consts.TokenNameLen, &name)
		copy(n.Name[:], name)
		n.TotalSupply = p.UnpackUint64(false)
		ix = &n
	case TransferID:
		ix = &Transfer{Amount: p.UnpackUint64(false)}
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
