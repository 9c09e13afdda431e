package common

import "github.com/prometheus/client_golang/prometheus"

const (
	RPCRequestTotal       = "rpc_requests_total"
	LifecycleOutcomeTotal = "lifecycle_outcome_total"
	DispatchFailureTotal  = "blockchain_dispatch_failure_total"
	TrackedTxGauge        = "blockchain_tracked_tx"
	ConfirmationSeconds   = "blockchain_confirmation_seconds"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		TrackedTxGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: TrackedTxGauge,
			Help: "Number of transactions waiting for a receipt",
		}, []string{"chain"}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		RPCRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RPCRequestTotal,
			Help: "Count of all studio RPC requests",
		}, []string{"method", "result"}),
		LifecycleOutcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: LifecycleOutcomeTotal,
			Help: "Count of transaction lifecycles by terminal phase",
		}, []string{"kind", "phase"}),
		DispatchFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DispatchFailureTotal,
			Help: "Count of all blockchain dispatch failures",
		}, []string{"reason"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		ConfirmationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    ConfirmationSeconds,
			Help:    "Time between tracking a transaction and receiving its receipt",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"chain", "status"}),
	}
)
