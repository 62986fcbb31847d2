// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"bytes"
	"fmt"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
)

// Account is the persisted state of a ledger entry. An account with an
// empty Owner is unclaimed.
type Account struct {
	Owner   codec.ProgramID `json:"owner"`
	Balance uint64          `json:"balance"`
	Nonce   uint64          `json:"nonce"`
	Data    codec.Bytes     `json:"data"`
}

func (a *Account) Claimed() bool {
	return !a.Owner.IsEmpty()
}

func (a *Account) Size() int {
	return codec.ProgramIDLen + 2*consts.Uint64Len + codec.BytesLen(a.Data)
}

func (a *Account) Marshal(p *codec.Packer) {
	p.PackProgramID(a.Owner)
	p.PackUint64(a.Balance)
	p.PackUint64(a.Nonce)
	p.PackBytes(a.Data)
}

// Bytes returns the canonical encoding of a.
func (a *Account) Bytes() ([]byte, error) {
	if len(a.Data) > consts.MaxAccountDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(a.Data))
	}
	p := codec.NewWriter(a.Size(), a.Size())
	a.Marshal(p)
	return p.Bytes(), p.Err()
}

func UnmarshalAccount(p *codec.Packer) (*Account, error) {
	var a Account
	p.UnpackProgramID(false, &a.Owner)
	a.Balance = p.UnpackUint64(false)
	a.Nonce = p.UnpackUint64(false)
	var data []byte
	p.UnpackBytes(consts.MaxAccountDataSize, false, &data)
	a.Data = data
	if err := p.Err(); err != nil {
		return nil, err
	}
	return &a, nil
}

// ParseAccount decodes an account stored by Bytes.
func ParseAccount(b []byte) (*Account, error) {
	p := codec.NewReader(b, consts.MaxAccountDataSize+len(b))
	a, err := UnmarshalAccount(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return a, nil
}

// Equal compares every field. A nil and an empty Data are equal.
func (a *Account) Equal(o *Account) bool {
	return a.Owner == o.Owner &&
		a.Balance == o.Balance &&
		a.Nonce == o.Nonce &&
		bytes.Equal(a.Data, o.Data)
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	c := *a
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return &c
}

// WithMeta is the snapshot of an account handed to a program for a single
// invocation. IsAuthorized is never persisted.
type WithMeta struct {
	Account      Account       `json:"account"`
	ID           codec.Address `json:"id"`
	IsAuthorized bool          `json:"isAuthorized"`
}

// PostState is the account state a program proposes after an invocation.
type PostState struct {
	Account Account `json:"account"`
	Claim   bool    `json:"claim"`
}

// Updated proposes [a] without claiming it.
func Updated(a Account) PostState {
	return PostState{Account: a}
}

// Claimed proposes [a] and asks to take ownership of it.
func Claimed(a Account) PostState {
	return PostState{Account: a, Claim: true}
}

// Resolve returns the account to persist once the post state has been
// accepted for [writer]: a claim stamps the writer as owner.
func (p PostState) Resolve(writer codec.ProgramID) Account {
	out := *p.Account.Clone()
	if p.Claim {
		out.Owner = writer
	}
	return out
}
