// Package metrics records preview activity in Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sink holds the collectors for the preview endpoint.
type Sink struct {
	registry    *prometheus.Registry
	previews    *prometheus.CounterVec
	duration    prometheus.Histogram
	uploadFiles prometheus.Counter
	uploadBytes prometheus.Counter
}

// NewSink registers the preview metrics on the provided registry. If reg is
// nil, a fresh registry is created. If the collectors are already
// registered, the existing ones are reused.
func NewSink(reg *prometheus.Registry) (*Sink, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	previews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maintgen_previews_total",
		Help: "Total number of email preview requests by outcome",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "maintgen_preview_duration_seconds",
		Help:    "Time spent composing one email preview",
		Buckets: prometheus.DefBuckets,
	})
	uploadFiles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "maintgen_upload_files_total",
		Help: "Total number of inventory files received",
	})
	uploadBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "maintgen_upload_bytes_total",
		Help: "Total bytes of inventory data received",
	})

	if err := reg.Register(previews); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			previews = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(uploadFiles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			uploadFiles = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(uploadBytes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			uploadBytes = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &Sink{
		registry:    reg,
		previews:    previews,
		duration:    duration,
		uploadFiles: uploadFiles,
		uploadBytes: uploadBytes,
	}, nil
}

// RecordPreview increments the preview counter for one outcome ("ok" or
// "error") and observes how long composition took.
func (s *Sink) RecordPreview(outcome string, seconds float64) {
	s.previews.WithLabelValues(outcome).Inc()
	s.duration.Observe(seconds)
}

// RecordUpload counts one received inventory file and its size.
func (s *Sink) RecordUpload(bytes int) {
	s.uploadFiles.Inc()
	s.uploadBytes.Add(float64(bytes))
}

// Handler returns the HTTP handler serving this sink's registry.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
