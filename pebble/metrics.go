// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	diskUsageInterval = 10 * time.Second

	readHit  = "hit"
	readMiss = "miss"
)

// metrics describe the ledger as the processor sees it: account reads,
// committed transaction batches and the disk they occupy.
type metrics struct {
	reads       *prometheus.CounterVec
	readLatency metric.Averager

	batchesWritten prometheus.Counter
	bytesWritten   prometheus.Counter

	compactions *prometheus.CounterVec
	stallStart  time.Time
	writeStall  metric.Averager

	diskUsage prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	readLatency, err := metric.NewAverager("ledger_read_latency", "time spent reading one key", r)
	if err != nil {
		return nil, nil, err
	}
	writeStall, err := metric.NewAverager("ledger_write_stall", "time commits waited on compaction", r)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		readLatency: readLatency,
		writeStall:  writeStall,
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "reads",
			Help:      "key reads by outcome",
		}, []string{"result"}),
		batchesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "batches_written",
			Help:      "number of ledger batches committed",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "batch_bytes_written",
			Help:      "key and value bytes committed through batches",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "compactions",
			Help:      "compactions started, by input level",
		}, []string{"level"}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "disk_usage",
			Help:      "bytes on disk used by the ledger",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.reads),
		r.Register(m.batchesWritten),
		r.Register(m.bytesWritten),
		r.Register(m.compactions),
		r.Register(m.diskUsage),
	)
	return r, m, errs.Err
}

func (m *metrics) observeRead(start time.Time, found bool) {
	m.readLatency.Observe(float64(time.Since(start)))
	if found {
		m.reads.WithLabelValues(readHit).Inc()
	} else {
		m.reads.WithLabelValues(readMiss).Inc()
	}
}

func (m *metrics) observeBatch(size int) {
	m.batchesWritten.Inc()
	m.bytesWritten.Add(float64(size))
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	level := "base"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) updateDiskUsage() {
	db.metrics.diskUsage.Set(float64(db.db.Metrics().DiskSpaceUsage()))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(diskUsageInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.updateDiskUsage()
		case <-db.closing:
			return
		}
	}
}
