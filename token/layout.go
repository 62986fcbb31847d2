// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
)

const (
	DefinitionSize = consts.ByteLen + consts.TokenNameLen + consts.Uint64Len
	HoldingSize    = consts.ByteLen + codec.AddressLen + consts.Uint64Len
)

// Definition is the data of a token definition account.
type Definition struct {
	Name        [consts.TokenNameLen]byte
	TotalSupply uint64
}

func (d *Definition) Bytes() []byte {
	p := codec.NewWriter(DefinitionSize, DefinitionSize)
	p.PackByte(DefinitionTag)
	p.PackFixedBytes(d.Name[:])
	p.PackUint64(d.TotalSupply)
	return p.Bytes()
}

func ParseDefinition(b []byte) (*Definition, error) {
	if len(b) != DefinitionSize || b[0] != DefinitionTag {
		return nil, ErrInvalidDefinition
	}
	p := codec.NewReader(b[1:], DefinitionSize)
	var (
		d    Definition
		name []byte
	)
	p.UnpackFixedBytes(consts.TokenNameLen, &name)
	copy(d.Name[:], name)
	d.TotalSupply = p.UnpackUint64(false)
	if p.Err() != nil {
		return nil, ErrInvalidDefinition
	}
	return &d, nil
}

// Holding is the data of a token holding account. Bytes [1:33] of the
// encoding are the definition id.
type Holding struct {
	Definition codec.Address
	Balance    uint64
}

func (h *Holding) Bytes() []byte {
	p := codec.NewWriter(HoldingSize, HoldingSize)
	p.PackByte(HoldingTag)
	p.PackAddress(h.Definition)
	p.PackUint64(h.Balance)
	return p.Bytes()
}

func ParseHolding(b []byte) (*Holding, error) {
	if len(b) != HoldingSize || b[0] != HoldingTag {
		return nil, ErrInvalidHolding
	}
	p := codec.NewReader(b[1:], HoldingSize)
	var h Holding
	p.UnpackAddress(false, &h.Definition)
	h.Balance = p.UnpackUint64(false)
	if p.Err() != nil {
		return nil, ErrInvalidHolding
	}
	return &h, nil
}

// HoldingDefinition returns the definition id of an encoded holding without
// decoding the rest.
func HoldingDefinition(b []byte) (codec.Address, error) {
	if len(b) < 1+codec.AddressLen || b[0] != HoldingTag {
		return codec.EmptyAddress, ErrInvalidHolding
	}
	return codec.Address(b[1 : 1+codec.AddressLen]), nil
}
