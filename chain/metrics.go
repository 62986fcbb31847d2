// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lssa-labs/treasuryvm/executor"
)

type chainMetrics struct {
	txsSucceeded prometheus.Counter
	txsFailed    prometheus.Counter
	chainedCalls prometheus.Counter
	callDepth    prometheus.Histogram

	stateChanges prometheus.Counter
	executeTime  metric.Averager

	executorBlocked    prometheus.Counter
	executorExecutable prometheus.Counter

	executorRecorder executor.Metrics
}

type executorMetrics struct {
	blocked    prometheus.Counter
	executable prometheus.Counter
}

func (em *executorMetrics) RecordBlocked() {
	em.blocked.Inc()
}

func (em *executorMetrics) RecordExecutable() {
	em.executable.Inc()
}

func newMetrics() (*prometheus.Registry, *chainMetrics, error) {
	r := prometheus.NewRegistry()

	executeTime, err := metric.NewAverager(
		"chain_execute_time",
		"time spent executing a transaction",
		r,
	)
	if err != nil {
		return nil, nil, err
	}

	m := &chainMetrics{
		txsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_succeeded",
			Help:      "number of transactions committed",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of transactions rolled back",
		}),
		chainedCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "chained_calls",
			Help:      "number of chained calls executed",
		}),
		callDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chain",
			Name:      "call_depth",
			Help:      "deepest chained call reached by a transaction",
			Buckets:   prometheus.LinearBuckets(0, 1, 9),
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_changes",
			Help:      "number of account writes committed",
		}),
		executorBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "executor_blocked",
			Help:      "batch transactions that waited on a conflicting transaction",
		}),
		executorExecutable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "executor_executable",
			Help:      "batch transactions that could run immediately",
		}),
		executeTime: executeTime,
	}
	m.executorRecorder = &executorMetrics{blocked: m.executorBlocked, executable: m.executorExecutable}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSucceeded),
		r.Register(m.txsFailed),
		r.Register(m.chainedCalls),
		r.Register(m.callDepth),
		r.Register(m.stateChanges),
		r.Register(m.executorBlocked),
		r.Register(m.executorExecutable),
	)
	return r, m, errs.Err
}
