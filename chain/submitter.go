// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"sync"

	"github.com/lssa-labs/treasuryvm/state"
)

var _ Submitter = (*LocalSubmitter)(nil)

// Submitter accepts signed transactions for execution.
type Submitter interface {
	Submit(ctx context.Context, tx *Transaction) (*Result, error)
}

// LocalSubmitter executes transactions directly against a local ledger.
// Submissions are serialized.
type LocalSubmitter struct {
	l         sync.Mutex
	processor *Processor
	db        state.Database
}

func NewLocalSubmitter(processor *Processor, db state.Database) *LocalSubmitter {
	return &LocalSubmitter{processor: processor, db: db}
}

func (s *LocalSubmitter) Submit(ctx context.Context, tx *Transaction) (*Result, error) {
	s.l.Lock()
	defer s.l.Unlock()

	return s.processor.Execute(ctx, s.db, tx)
}
