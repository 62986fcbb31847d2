// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// TState collects the committed changes of every transaction view until
// they are written to disk in one batch.
type TState struct {
	l           sync.RWMutex
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(changedSize int) *TState {
	return &TState{changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize)}
}

func (ts *TState) getChangedValue(key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	v, ok := ts.changedKeys[key]
	if !ok {
		return nil, false, false
	}
	if v.IsNothing() {
		return nil, true, false
	}
	return v.Value(), true, true
}

// OpIndex returns the number of operations committed to ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed since creation.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// Write adds every committed change to [batch] in key order and returns
// the number of keys written. [batch] is not written.
//
// Once [Write] is called, [TState] should not be used again.
func (ts *TState) Write(ctx context.Context, t trace.Tracer, batch database.Batch) (int, error) {
	_, span := t.Start(ctx, "TState.Write")
	defer span.End()

	ts.l.Lock()
	defer ts.l.Unlock()

	keys := maps.Keys(ts.changedKeys)
	slices.Sort(keys)
	for _, k := range keys {
		v := ts.changedKeys[k]
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return 0, err
		}
	}
	span.SetAttributes(attribute.Int("keys", len(keys)))
	span.AddEvent("changes staged", oteltrace.WithAttributes(attribute.Int("ops", ts.ops)))
	return len(keys), nil
}
