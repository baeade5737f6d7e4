package gallery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the view model counters. A nil registerer yields working but
// unregistered collectors.
type Metrics struct {
	uploads     *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	removals    *prometheus.CounterVec
	items       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "uploads_total",
			Help:      "Uploads by result (ok, failed, rejected).",
		}, []string{"result"}),
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "resolutions_total",
			Help:      "Record resolutions by result (ok, dropped).",
		}, []string{"result"}),
		removals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "detached_deletes_total",
			Help:      "Background store deletes by result (ok, failed).",
		}, []string{"result"}),
		items: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "gallery",
			Name:      "items",
			Help:      "Items currently in the view.",
		}),
	}
}
