package models

import "time"

// PricePoint is one trading day's closing price. Price series are
// ordered by date, strictly increasing, no duplicates.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// ReturnPoint is one trading day's log-return.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// ReturnSeries is the ordered sequence of daily log-returns for one
// asset. It is owned by a single pipeline run and never mutated after
// construction; every downstream stage derives new values from it.
type ReturnSeries []ReturnPoint

// Values returns the raw return values in date order.
func (rs ReturnSeries) Values() []float64 {
	out := make([]float64, len(rs))
	for i, p := range rs {
		out[i] = p.Value
	}
	return out
}

// Window returns the trailing slice of n values ending at index i
// inclusive, or nil when fewer than n observations precede it.
func (rs ReturnSeries) Window(i, n int) []float64 {
	if n <= 0 || i < n-1 || i >= len(rs) {
		return nil
	}
	w := make([]float64, n)
	for j := 0; j < n; j++ {
		w[j] = rs[i-n+1+j].Value
	}
	return w
}

// Baseline is the unordered sample of returns drawn from the baseline
// calendar year. Order and dates are deliberately discarded: the sample
// is only ever used as an empirical distribution.
type Baseline struct {
	Year   int
	Values []float64
}

// Reliable reports whether the sample meets the minimum count required
// for distributional comparison.
func (b Baseline) Reliable(min int) bool {
	return len(b.Values) >= min
}

// FeaturePoint is one rolling-statistic observation.
type FeaturePoint struct {
	Date  time.Time
	Value float64
}

// FeatureSeries is a date-indexed rolling statistic. Only dates whose
// window was computable are present; missing values are dropped, never
// padded or carried forward.
type FeatureSeries struct {
	Name   string
	Points []FeaturePoint
}

// ZSeries is a FeatureSeries that has been z-scored over its own
// defined values (mean 0, sample std dev 1).
type ZSeries = FeatureSeries

// Values returns the feature values in date order.
func (fs FeatureSeries) Values() []float64 {
	out := make([]float64, len(fs.Points))
	for i, p := range fs.Points {
		out[i] = p.Value
	}
	return out
}

// Len returns the number of defined points.
func (fs FeatureSeries) Len() int { return len(fs.Points) }

// Slice returns the points with from <= date <= to, preserving order.
func (fs FeatureSeries) Slice(from, to time.Time) FeatureSeries {
	out := FeatureSeries{Name: fs.Name}
	for _, p := range fs.Points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}
