// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/state"
)

const AccountKeyLen = consts.ByteLen + codec.AddressLen

// AccountKey returns [accountPrefix] + [addr].
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, AccountKeyLen)
	k[0] = accountPrefix
	copy(k[1:], addr[:])
	return k
}

// GetAccount returns the account stored at [addr]. An address that has
// never been written holds the zero (unclaimed) account.
func GetAccount(ctx context.Context, im state.Immutable, addr codec.Address) (*account.Account, error) {
	v, err := im.GetValue(ctx, AccountKey(addr))
	return innerGetAccount(addr, v, err)
}

// GetAccountFromDB reads [addr] directly from [db], outside of any
// transaction.
func GetAccountFromDB(db database.KeyValueReader, addr codec.Address) (*account.Account, error) {
	v, err := db.Get(AccountKey(addr))
	return innerGetAccount(addr, v, err)
}

func innerGetAccount(addr codec.Address, v []byte, err error) (*account.Account, error) {
	if errors.Is(err, database.ErrNotFound) {
		return &account.Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	acct, err := account.ParseAccount(v)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s", err, addr)
	}
	return acct, nil
}

// SetAccount stores [acct] at [addr].
func SetAccount(ctx context.Context, mu state.Mutable, addr codec.Address, acct *account.Account) error {
	b, err := acct.Bytes()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(addr), b)
}
