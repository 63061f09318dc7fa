// Package metrics records install timings and package outcomes on a private
// Prometheus registry, which can be dumped for the node-exporter textfile
// collector.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultCopied      = "copied"
	ResultSkipped     = "skipped"
	ResultUnsatisfied = "unsatisfied"
	ResultFailed      = "failed"
)

type Recorder interface {
	ObserveStep(step string, start time.Time)
	PackageResolved(result string)
	AddDownloadedBytes(n int64)
}

type promRecorder struct {
	registry *prometheus.Registry

	stepDuration    *prometheus.HistogramVec
	packages        *prometheus.CounterVec
	downloadedBytes prometheus.Counter
}

// Registry exposes the collectors of a Recorder created by New.
type Registry interface {
	Recorder
	Gatherer() prometheus.Gatherer
	WriteTextfile(path string) error
}

func New() Registry {
	r := &promRecorder{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netweaver_step_duration_seconds",
			Help:    "The duration of each install step in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"step"}),
		packages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netweaver_packages_total",
			Help: "The total number of dependency packages processed, by result.",
		}, []string{"result"}),
		downloadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netweaver_download_bytes_total",
			Help: "The total number of bytes downloaded.",
		}),
	}

	r.registry.MustRegister(r.stepDuration, r.packages, r.downloadedBytes)
	return r
}

func (r *promRecorder) ObserveStep(step string, start time.Time) {
	r.stepDuration.With(prometheus.Labels{"step": step}).Observe(time.Since(start).Seconds())
}

func (r *promRecorder) PackageResolved(result string) {
	r.packages.With(prometheus.Labels{"result": result}).Inc()
}

func (r *promRecorder) AddDownloadedBytes(n int64) {
	if n > 0 {
		r.downloadedBytes.Add(float64(n))
	}
}

func (r *promRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *promRecorder) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, r.registry), "write metrics to %s", path)
}

// Nop discards everything.
var Nop Recorder = nopRecorder{}

type nopRecorder struct{}

func (nopRecorder) ObserveStep(string, time.Time) {}
func (nopRecorder) PackageResolved(string)        {}
func (nopRecorder) AddDownloadedBytes(int64)      {}
