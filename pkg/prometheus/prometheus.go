package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/internal/common"
)

// NewRegistry holds the runtime collectors and every studio metric.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()

	// default collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for _, gauge := range common.PromGauges {
		registry.MustRegister(gauge)
	}

	for _, counter := range common.PromCounters {
		registry.MustRegister(counter)
	}

	for _, histogram := range common.PromHistograms {
		registry.MustRegister(histogram)
	}

	return registry
}

func NewHandler() http.Handler {
	return promhttp.HandlerFor(NewRegistry(), promhttp.HandlerOpts{})
}

// NewServer serves the metrics at /metrics of cfg.
func NewServer(cfg config.ServerConfigs) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewHandler())

	return &http.Server{
		Addr:    cfg.Address(),
		Handler: mux,
	}
}
