// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
)

type Result struct {
	TxID    ids.ID `json:"txId"`
	Success bool   `json:"success"`
	Error   []byte `json:"error,omitempty"`

	// ChainedCalls is the number of chained calls the transaction ran.
	ChainedCalls int `json:"chainedCalls"`
	// Touched lists the accounts whose stored state changed.
	Touched []codec.Address `json:"touched"`
}

func (r *Result) Size() int {
	return ids.IDLen + consts.BoolLen + codec.BytesLen(r.Error) +
		consts.IntLen + consts.ByteLen + len(r.Touched)*codec.AddressLen
}

func (r *Result) Marshal(p *codec.Packer) {
	p.PackFixedBytes(r.TxID[:])
	p.PackBool(r.Success)
	p.PackBytes(r.Error)
	p.PackInt(uint32(r.ChainedCalls))
	p.PackAddresses(r.Touched)
}

func UnmarshalResult(p *codec.Packer) (*Result, error) {
	var (
		result Result
		txID   []byte
	)
	p.UnpackFixedBytes(ids.IDLen, &txID)
	copy(result.TxID[:], txID)
	result.Success = p.UnpackBool()
	p.UnpackBytes(consts.MaxInt, false, &result.Error)
	result.ChainedCalls = int(p.UnpackInt(false))
	result.Touched = p.UnpackAddresses(consts.MaxTransactionAccounts, false)
	return &result, p.Err()
}
