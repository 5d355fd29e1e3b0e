package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	assetsProcessed *prometheus.CounterVec
	assetsSkipped   *prometheus.CounterVec
	alertsTotal     *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	seriesPoints    *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		assetsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakscan_assets_processed_total",
				Help: "Assets that completed the analysis pipeline",
			},
			[]string{"asset"},
		),
		assetsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakscan_assets_skipped_total",
				Help: "Assets dropped from a run, by reason",
			},
			[]string{"asset", "reason"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakscan_break_alerts_total",
				Help: "Break alerts emitted, by signal",
			},
			[]string{"asset", "signal"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "breakscan_fetch_duration_seconds",
				Help:    "Price history fetch latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ticker"},
		),
		seriesPoints: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "breakscan_return_series_points",
				Help: "Usable log-return observations per asset in the last run",
			},
			[]string{"asset"},
		),
	}
}

// RecordAssetProcessed counts a completed asset pipeline.
func (r *Recorder) RecordAssetProcessed(asset string) {
	r.assetsProcessed.WithLabelValues(asset).Inc()
}

// RecordAssetSkipped counts a dropped asset with its reason.
func (r *Recorder) RecordAssetSkipped(asset, reason string) {
	r.assetsSkipped.WithLabelValues(asset, reason).Inc()
}

// RecordFetchLatency records one price fetch duration in seconds.
func (r *Recorder) RecordFetchLatency(ticker string, seconds float64) {
	r.fetchDuration.WithLabelValues(ticker).Observe(seconds)
}

// RecordSeriesLength records how many usable returns an asset produced.
func (r *Recorder) RecordSeriesLength(asset string, n int) {
	r.seriesPoints.WithLabelValues(asset).Set(float64(n))
}

// RecordAlert counts an emitted break alert.
func (r *Recorder) RecordAlert(asset, signal string) {
	r.alertsTotal.WithLabelValues(asset, signal).Inc()
}
