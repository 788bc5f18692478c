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
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

// sampled gauges are refreshed from [pebble.Metrics] every [metricsInterval].
type sampled struct {
	gauge prometheus.Gauge
	value func(*pebble.Metrics) float64
}

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	batchCommits prometheus.Counter
	batchSize    metric.Averager

	sampled []sampled
}

func newGauge(name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		activeCompactions: newGauge("active_compactions", "number of active compactions"),
		batchCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_commits",
			Help:      "number of batches committed",
		}),
		sampled: []sampled{
			{
				gauge: newGauge("tombstone_count", "approximate count of internal tombstones"),
				value: func(m *pebble.Metrics) float64 { return float64(m.Keys.TombstoneCount) },
			},
			{
				gauge: newGauge("obsolete_table_size", "bytes in tables no longer referenced by the db"),
				value: func(m *pebble.Metrics) float64 { return float64(m.Table.ObsoleteSize) },
			},
			{
				gauge: newGauge("zombie_table_size", "bytes in unreferenced tables still held by iterators"),
				value: func(m *pebble.Metrics) float64 { return float64(m.Table.ZombieSize) },
			},
			{
				gauge: newGauge("obsolete_wal_size", "bytes in WAL files no longer needed by the db"),
				value: func(m *pebble.Metrics) float64 { return float64(m.WAL.ObsoletePhysicalSize) },
			},
			{
				gauge: newGauge("disk_space_usage", "bytes used by the db on disk"),
				value: func(m *pebble.Metrics) float64 { return float64(m.DiskSpaceUsage()) },
			},
		},
	}

	errs := wrappers.Errs{}
	m.writeStall, errs.Err = metric.NewAverager("pebble_write_stall", "time spent waiting for disk write", r)
	if errs.Errored() {
		return nil, nil, errs.Err
	}
	m.getLatency, errs.Err = metric.NewAverager("pebble_read_latency", "time spent waiting for db get", r)
	if errs.Errored() {
		return nil, nil, errs.Err
	}
	m.batchSize, errs.Err = metric.NewAverager("pebble_batch_size", "bytes per committed batch", r)
	if errs.Errored() {
		return nil, nil, errs.Err
	}
	errs.Add(
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.batchCommits),
	)
	for _, s := range m.sampled {
		errs.Add(r.Register(s.gauge))
	}
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.delayStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.delayStart)))
}

func (db *Database) onBatchCommit(size int) {
	db.metrics.batchCommits.Inc()
	db.metrics.batchSize.Observe(float64(size))
}

func (db *Database) sampleMetrics() {
	current := db.db.Metrics()
	for _, s := range db.metrics.sampled {
		s.gauge.Set(s.value(current))
	}
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.sampleMetrics()
		case <-db.closing:
			return
		}
	}
}
