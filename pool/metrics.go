// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	succeeded = "success"
	failed    = "failure"
)

type metrics struct {
	operations *prometheus.CounterVec
	latency    metric.Averager

	reserveA    prometheus.Gauge
	reserveB    prometheus.Gauge
	totalShares prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	latency, err := metric.NewAverager(
		"pool_operation_latency",
		"time spent executing pool operations",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		latency: latency,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pool",
			Name:      "operations",
			Help:      "number of pool operations by outcome",
		}, []string{"op", "outcome"}),
		reserveA: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pool",
			Name:      "reserve_a",
			Help:      "reserve of token a",
		}),
		reserveB: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pool",
			Name:      "reserve_b",
			Help:      "reserve of token b",
		}),
		totalShares: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pool",
			Name:      "total_shares",
			Help:      "outstanding share supply",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.operations),
		r.Register(m.reserveA),
		r.Register(m.reserveB),
		r.Register(m.totalShares),
	)
	return m, errs.Err
}
