// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Batch = (*batch)(nil)

// batch stages writes in a pebble batch that is committed atomically. The
// operations are also recorded so they can be replayed elsewhere.
type batch struct {
	db    *Database
	batch *pebble.Batch
	ops   database.BatchOps
}

func (b *batch) Put(key, value []byte) error {
	if err := b.batch.Set(key, value, nil); err != nil {
		return err
	}
	return b.ops.Put(key, value)
}

func (b *batch) Delete(key []byte) error {
	if err := b.batch.Delete(key, nil); err != nil {
		return err
	}
	return b.ops.Delete(key)
}

func (b *batch) Size() int {
	return b.ops.Size()
}

func (b *batch) Write() error {
	if b.db.closed.Load() {
		return database.ErrClosed
	}
	if err := b.batch.Commit(b.db.writeOptions); err != nil {
		return err
	}
	b.db.metrics.observeBatch(b.ops.Size())
	return nil
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.ops.Reset()
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	return b.ops.Replay(w)
}

func (b *batch) Inner() database.Batch {
	return b
}
