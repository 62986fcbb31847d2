// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/lssa-labs/treasuryvm/account"
	"github.com/lssa-labs/treasuryvm/auth"
	"github.com/lssa-labs/treasuryvm/chained"
	"github.com/lssa-labs/treasuryvm/codec"
	"github.com/lssa-labs/treasuryvm/collections"
	"github.com/lssa-labs/treasuryvm/consts"
	"github.com/lssa-labs/treasuryvm/executor"
	"github.com/lssa-labs/treasuryvm/pda"
	"github.com/lssa-labs/treasuryvm/program"
	"github.com/lssa-labs/treasuryvm/state"
	"github.com/lssa-labs/treasuryvm/storage"
	"github.com/lssa-labs/treasuryvm/tstate"

	smath "github.com/ava-labs/avalanchego/utils/math"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Processor executes transactions against a ledger. A transaction either
// commits every account change it produced or none of them.
type Processor struct {
	cfg      Config
	log      logging.Logger
	tracer   trace.Tracer
	programs *program.Registry
	deriver  *pda.Deriver
	verifier auth.Verifier
	metrics  *chainMetrics
}

// NewProcessor returns a [Processor] and the registry holding its metrics.
func NewProcessor(
	cfg Config,
	log logging.Logger,
	tracer trace.Tracer,
	programs *program.Registry,
	deriver *pda.Deriver,
	verifier auth.Verifier,
) (*Processor, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	return &Processor{
		cfg:      cfg,
		log:      log,
		tracer:   tracer,
		programs: programs,
		deriver:  deriver,
		verifier: verifier,
		metrics:  metrics,
	}, registry, nil
}

// Execute runs [tx] and writes its changes to [db]. If [tx] fails, nothing
// is written and the error is returned.
func (p *Processor) Execute(ctx context.Context, db state.Database, tx *Transaction) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Execute")
	defer span.End()

	ts := tstate.New(len(tx.Message.Accounts))
	result, err := p.process(ctx, db, ts, tx)
	if err != nil {
		return nil, err
	}
	if err := p.write(ctx, db, ts); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteBatch runs [txs] concurrently, ordering transactions that share an
// account, and writes every successful transaction in one batch. The
// results match running [txs] one after another. A failed transaction gets
// a failed [Result]; it does not stop the others.
func (p *Processor) ExecuteBatch(ctx context.Context, db state.Database, txs []*Transaction) ([]*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.ExecuteBatch", oteltrace.WithAttributes(
		attribute.Int("txs", len(txs)),
	))
	defer span.End()

	var (
		ts      = tstate.New(len(txs) * 2)
		e       = executor.New(len(txs), p.cfg.ExecutionCores, p.metrics.executorRecorder)
		results = make([]*Result, len(txs))
	)
	for i, tx := range txs {
		i := i
		tx := tx
		e.Run(tx.StateKeys(), func() error {
			result, err := p.process(ctx, db, ts, tx)
			if err != nil {
				results[i] = &Result{
					TxID:  tx.ID(),
					Error: []byte(err.Error()),
				}
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		return nil, err
	}
	if err := p.write(ctx, db, ts); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) write(ctx context.Context, db state.Database, ts *tstate.TState) error {
	batch := db.NewBatch()
	changes, err := ts.Write(ctx, p.tracer, batch)
	if err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	p.metrics.stateChanges.Add(float64(changes))
	return nil
}

// frame is a chained call waiting to run.
type frame struct {
	caller codec.ProgramID
	call   *chained.Call
	depth  int
}

// txContext is the working state of one transaction.
type txContext struct {
	tx       *Transaction
	view     *tstate.TStateView
	declared map[codec.Address]struct{}
	signers  map[codec.Address]struct{}
	stack    *collections.FixedSizeStack[*frame]

	calls    int
	maxDepth int
	touched  []codec.Address
	seen     map[codec.Address]struct{}
}

func (tc *txContext) touch(addr codec.Address) {
	if _, ok := tc.seen[addr]; ok {
		return
	}
	tc.seen[addr] = struct{}{}
	tc.touched = append(tc.touched, addr)
}

func (tc *txContext) isSigner(addr codec.Address) bool {
	_, ok := tc.signers[addr]
	return ok
}

// process runs [tx] on a view of [ts]. The view is committed to [ts] only
// if [tx] succeeds.
func (p *Processor) process(ctx context.Context, db state.Database, ts *tstate.TState, tx *Transaction) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.process", oteltrace.WithAttributes(
		attribute.Stringer("txID", tx.ID()),
		attribute.Stringer("program", tx.Message.Program),
		attribute.Int("accounts", len(tx.Message.Accounts)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.executeTime.Observe(float64(time.Since(start)))
	}()

	tc, err := p.prepare(db, ts, tx)
	if err != nil {
		p.fail(tx, err)
		return nil, err
	}
	if err := p.run(ctx, tc); err != nil {
		tc.view.Rollback(ctx, 0)
		p.fail(tx, err)
		return nil, err
	}
	tc.view.Commit()

	span.SetAttributes(
		attribute.Int("chainedCalls", tc.calls),
		attribute.Int("depth", tc.maxDepth),
	)
	p.metrics.txsSucceeded.Inc()
	p.metrics.chainedCalls.Add(float64(tc.calls))
	p.metrics.callDepth.Observe(float64(tc.maxDepth))
	p.log.Debug("executed transaction",
		zap.Stringer("txID", tx.ID()),
		zap.Stringer("program", tx.Message.Program),
		zap.Int("chainedCalls", tc.calls),
		zap.Int("touched", len(tc.touched)),
	)
	return &Result{
		TxID:         tx.ID(),
		Success:      true,
		ChainedCalls: tc.calls,
		Touched:      tc.touched,
	}, nil
}

func (p *Processor) fail(tx *Transaction, err error) {
	p.metrics.txsFailed.Inc()
	p.log.Debug("transaction failed",
		zap.Stringer("txID", tx.ID()),
		zap.Stringer("program", tx.Message.Program),
		zap.Error(err),
	)
}

// prepare runs the stateless checks, verifies the witnesses and opens a
// view scoped to the declared accounts.
func (p *Processor) prepare(db state.Database, ts *tstate.TState, tx *Transaction) (*txContext, error) {
	if err := tx.SyntacticVerify(); err != nil {
		return nil, err
	}
	digest, err := tx.Digest()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTx, err)
	}
	if err := auth.VerifyAll(p.verifier, digest, tx.Witnesses); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWitness, err)
	}

	keys := tx.StateKeys()
	scopeStorage := make(map[string][]byte, len(keys))
	for k := range keys {
		v, err := db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		scopeStorage[k] = v
	}

	tc := &txContext{
		tx:       tx,
		view:     ts.NewView(keys, scopeStorage),
		declared: make(map[codec.Address]struct{}, len(tx.Message.Accounts)),
		signers:  make(map[codec.Address]struct{}, len(tx.Witnesses)),
		stack:    collections.NewFixedSizeStack[*frame](p.cfg.MaxChainedCalls),
		seen:     make(map[codec.Address]struct{}, len(tx.Message.Accounts)),
	}
	for _, addr := range tx.Message.Accounts {
		tc.declared[addr] = struct{}{}
	}
	for _, w := range tx.Witnesses {
		tc.signers[w.Address()] = struct{}{}
	}
	return tc, nil
}

func (p *Processor) run(ctx context.Context, tc *txContext) error {
	msg := tc.tx.Message

	// Signer nonces are checked before anything runs so a replay fails
	// without touching state.
	for i, w := range tc.tx.Witnesses {
		acct, err := storage.GetAccount(ctx, tc.view, w.Address())
		if err != nil {
			return err
		}
		if acct.Nonce != msg.Nonces[i] {
			return fmt.Errorf("%w: %s has %d, tx expects %d", ErrNonceMismatch, w.Address(), acct.Nonce, msg.Nonces[i])
		}
	}

	accounts := make([]account.WithMeta, len(msg.Accounts))
	for i, addr := range msg.Accounts {
		acct, err := storage.GetAccount(ctx, tc.view, addr)
		if err != nil {
			return err
		}
		accounts[i] = account.WithMeta{
			Account:      *acct,
			ID:           addr,
			IsAuthorized: tc.isSigner(addr),
		}
	}
	prog, err := p.programs.Get(msg.Program)
	if err != nil {
		return err
	}
	out, err := p.invoke(ctx, tc, prog, &program.Invocation{
		Self:        msg.Program,
		Accounts:    accounts,
		Instruction: msg.Instruction,
		Approvals:   tc.tx.Approvals,
	})
	if err != nil {
		return err
	}
	if err := p.push(tc, msg.Program, out.Calls, 1); err != nil {
		return err
	}

	for tc.stack.Len() > 0 {
		f := tc.stack.Pop()
		if err := p.runCall(ctx, tc, f); err != nil {
			return err
		}
	}
	return p.bumpNonces(ctx, tc)
}

// push schedules [calls] so that they run in order, each one (and
// everything it calls) finishing before the next starts.
func (p *Processor) push(tc *txContext, caller codec.ProgramID, calls []*chained.Call, depth int) error {
	if len(calls) == 0 {
		return nil
	}
	if depth > p.cfg.MaxCallDepth {
		return fmt.Errorf("%w: depth %d > %d", ErrCallDepthExceeded, depth, p.cfg.MaxCallDepth)
	}
	if total := tc.calls + tc.stack.Len() + len(calls); total > p.cfg.MaxChainedCalls {
		return fmt.Errorf("%w: %d > %d", ErrTooManyCalls, total, p.cfg.MaxChainedCalls)
	}
	for i := len(calls) - 1; i >= 0; i-- {
		if err := tc.stack.Push(&frame{caller: caller, call: calls[i], depth: depth}); err != nil {
			return fmt.Errorf("%w: %w", ErrTooManyCalls, err)
		}
	}
	return nil
}

func (p *Processor) runCall(ctx context.Context, tc *txContext, f *frame) error {
	call := f.call
	ctx, span := p.tracer.Start(ctx, "Processor.runCall", oteltrace.WithAttributes(
		attribute.Stringer("caller", f.caller),
		attribute.Stringer("program", call.Program),
		attribute.Int("depth", f.depth),
	))
	defer span.End()

	tc.calls++
	if f.depth > tc.maxDepth {
		tc.maxDepth = f.depth
	}
	if len(call.Instruction) > consts.MaxInstructionSize {
		return fmt.Errorf("%w: chained call carries %d bytes", ErrInstructionTooLarge, len(call.Instruction))
	}
	if err := chained.Verify(p.deriver, f.caller, call); err != nil {
		return err
	}

	accounts := make([]account.WithMeta, len(call.Accounts))
	used := make(map[codec.Address]struct{}, len(call.Accounts))
	for i, snapshot := range call.Accounts {
		if _, ok := tc.declared[snapshot.ID]; !ok {
			return fmt.Errorf("%w: %s", ErrUndeclaredAccount, snapshot.ID)
		}
		if _, ok := used[snapshot.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, snapshot.ID)
		}
		used[snapshot.ID] = struct{}{}

		current, err := storage.GetAccount(ctx, tc.view, snapshot.ID)
		if err != nil {
			return err
		}
		if !current.Equal(&snapshot.Account) {
			return fmt.Errorf("%w: %s", ErrStaleSnapshot, snapshot.ID)
		}
		accounts[i] = account.WithMeta{
			Account:      *current,
			ID:           snapshot.ID,
			IsAuthorized: snapshot.IsAuthorized || tc.isSigner(snapshot.ID),
		}
	}

	prog, err := p.programs.Get(call.Program)
	if err != nil {
		return err
	}
	out, err := p.invoke(ctx, tc, prog, &program.Invocation{
		Self:        call.Program,
		Caller:      f.caller,
		Accounts:    accounts,
		Instruction: call.Instruction,
	})
	if err != nil {
		return err
	}
	return p.push(tc, call.Program, out.Calls, f.depth+1)
}

// invoke runs [prog], validates what it returned and stages every changed
// account in the view.
func (p *Processor) invoke(ctx context.Context, tc *txContext, prog program.Program, inv *program.Invocation) (*program.Output, error) {
	out, err := prog.Execute(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("%w: program %s", err, inv.Self)
	}
	if err := account.ValidateOutput(inv.Self, inv.Accounts, out.PostStates); err != nil {
		return nil, fmt.Errorf("%w: program %s", err, inv.Self)
	}
	for i, post := range out.PostStates {
		next := post.Resolve(inv.Self)
		if next.Equal(&inv.Accounts[i].Account) {
			continue
		}
		addr := inv.Accounts[i].ID
		if err := storage.SetAccount(ctx, tc.view, addr, &next); err != nil {
			return nil, err
		}
		tc.touch(addr)
	}
	return out, nil
}

func (*Processor) bumpNonces(ctx context.Context, tc *txContext) error {
	for _, w := range tc.tx.Witnesses {
		addr := w.Address()
		acct, err := storage.GetAccount(ctx, tc.view, addr)
		if err != nil {
			return err
		}
		acct.Nonce, err = smath.Add(acct.Nonce, 1)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrNonceOverflow, addr)
		}
		if err := storage.SetAccount(ctx, tc.view, addr, acct); err != nil {
			return err
		}
		tc.touch(addr)
	}
	return nil
}
