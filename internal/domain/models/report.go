package models

import "time"

// SummaryMetric is one named whole-series diagnostic.
type SummaryMetric struct {
	Name  string
	Value float64
}

// SummaryRecord holds the one-shot diagnostics for an asset: ADF
// statistic and p-value, Jarque-Bera p-value, skewness and excess
// kurtosis, computed over the full cleaned return series.
type SummaryRecord struct {
	Asset   string
	Metrics []SummaryMetric
}

// AssetReport bundles everything the pipeline produced for one asset.
// It is assembled once, after all stages have run, and treated as
// immutable by every consumer (sinks, renderer, aggregator).
type AssetReport struct {
	Name   string
	Ticker string

	Returns  ReturnSeries
	Baseline Baseline

	RollMean FeatureSeries
	RollVol  FeatureSeries
	RollKS   FeatureSeries

	// Whole-series z-scores. Either may be absent (Len()==0) when its
	// feature series was empty or degenerate; Warnings says why.
	ZVol ZSeries
	ZKS  ZSeries

	Summary  SummaryRecord
	Warnings []string
}

// CrashRow is one date inside the crash window with its locally
// re-z-scored volatility and KS distance. ZVol/ZKS here use the crash
// sub-window's own mean and std dev and are deliberately distinct from
// the whole-series z-scores on AssetReport.
type CrashRow struct {
	Date    time.Time
	Return  float64
	RollVol float64
	RollKS  float64
	ZVol    float64
	ZKS     float64
	HasKS   bool
}

// CrashSlice is the crash-window cut of an asset report.
type CrashSlice struct {
	Asset string
	Start time.Time
	End   time.Time
	Rows  []CrashRow
}

// ComparisonBundle couples the per-asset outputs for side-by-side
// reporting. Volatility holds each asset's whole-series z-scored
// rolling volatility on its native trading calendar; there is no
// cross-asset date alignment.
type ComparisonBundle struct {
	Summaries  []SummaryRecord
	Volatility map[string]ZSeries
	Skipped    []string
}

// Assets returns the asset names present in the bundle, sorted order
// is the caller's concern.
func (b *ComparisonBundle) Assets() []string {
	names := make([]string, 0, len(b.Summaries))
	for _, s := range b.Summaries {
		names = append(names, s.Asset)
	}
	return names
}

// BreakAlert is emitted when a z-scored break signal crosses the
// configured alert threshold.
type BreakAlert struct {
	Asset     string    `json:"asset"`
	Date      time.Time `json:"date"`
	Signal    string    `json:"signal"` // "z_vol" or "z_ks"
	Score     float64   `json:"score"`
	Threshold float64   `json:"threshold"`
}
