// Package analytics computes one-shot whole-series diagnostics for a
// return series: stationarity (ADF), normality (Jarque-Bera), skewness
// and excess kurtosis. These need the entire cleaned series, not a
// rolling window, and are independent of the baseline sample.
package analytics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"BreakScan/internal/domain/models"
)

// Summary metric names as they appear in the summary artifact.
const (
	MetricADFStat  = "ADF Statistic"
	MetricADFP     = "ADF P-Value"
	MetricJBP      = "JB P-Value"
	MetricSkewness = "Skewness"
	MetricKurtosis = "Kurtosis"
)

// Summarize computes the diagnostic record for one asset over its full
// cleaned return series.
func Summarize(asset string, rs models.ReturnSeries) (models.SummaryRecord, error) {
	rec := models.SummaryRecord{Asset: asset}
	vals := rs.Values()

	adf, err := ADF(vals)
	if err != nil {
		return rec, fmt.Errorf("summarize %s: %w", asset, err)
	}
	_, jbP, err := JarqueBera(vals)
	if err != nil {
		return rec, fmt.Errorf("summarize %s: %w", asset, err)
	}

	rec.Metrics = []models.SummaryMetric{
		{Name: MetricADFStat, Value: adf.Statistic},
		{Name: MetricADFP, Value: adf.PValue},
		{Name: MetricJBP, Value: jbP},
		{Name: MetricSkewness, Value: stat.Skew(vals, nil)},
		{Name: MetricKurtosis, Value: stat.ExKurtosis(vals, nil)},
	}
	return rec, nil
}
