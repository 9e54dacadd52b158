package api

import (
	"net/http"

	"github.com/okian/runboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler serves the custom metrics registry in Prometheus format.
func NewMetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
