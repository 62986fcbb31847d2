// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes. Every ledger key starts with one of these.
const (
	accountPrefix byte = 0x0
)

// Namespace is the data directory the ledger is stored under.
const Namespace = "ledgerdb"
