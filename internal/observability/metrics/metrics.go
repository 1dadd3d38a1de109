package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "illuminator_"

	resultSuccess = "success"
	resultError   = "error"
	resultGaps    = "mapping_gaps"
)

var (
	registerOnce sync.Once

	reportsTotal  *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
	reportRows    prometheus.Counter

	mappingGaps      prometheus.Counter
	billingAnomalies prometheus.Counter

	exportsTotal  *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers the billing metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		reportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reports_total",
				Help: "Total processed usage reports by result",
			},
			[]string{"result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "Usage report processing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reportRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_rows_total",
				Help: "Total usage rows accepted after filtering",
			},
		)

		mappingGaps = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "mapping_gaps_total",
				Help: "Total unmapped scenarios surfaced to callers",
			},
		)
		billingAnomalies = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_anomalies_total",
				Help: "Total events with negative billable minutes",
			},
		)

		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total summary exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Summary export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			reportsTotal,
			reportLatency,
			reportRows,
			mappingGaps,
			billingAnomalies,
			exportsTotal,
			exportLatency,
		)
	})
}

// ObserveReport records one processing run.
func ObserveReport(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if reportsTotal != nil {
		reportsTotal.WithLabelValues(result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddReportRows counts accepted usage rows.
func AddReportRows(count int) {
	if count <= 0 {
		return
	}
	if reportRows != nil {
		reportRows.Add(float64(count))
	}
}

// AddMappingGaps counts surfaced unmapped scenarios.
func AddMappingGaps(count int) {
	if count <= 0 {
		return
	}
	if mappingGaps != nil {
		mappingGaps.Add(float64(count))
	}
}

// AddBillingAnomalies counts negative-billable events.
func AddBillingAnomalies(count int) {
	if count <= 0 {
		return
	}
	if billingAnomalies != nil {
		billingAnomalies.Add(float64(count))
	}
}

// ObserveExport records one export rendering.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportsTotal != nil {
		exportsTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess     = resultSuccess
	ResultError       = resultError
	ResultMappingGaps = resultGaps
)
