package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"BreakScan/internal/domain/models"
)

// Feature series names, also used as CSV column headers.
const (
	NameRollMean = "Roll_Mean"
	NameRollVol  = "Roll_Vol"
	NameRollKS   = "Roll_KS"
	NameZVol     = "Z_Vol"
	NameZKS      = "Z_KS"
)

// Config bounds the rolling feature engine.
type Config struct {
	Window      int // trailing window length N
	MinWindow   int // minimum window points for a KS value
	MinBaseline int // minimum baseline points for a KS value
}

// Rolling computes the three trailing-window statistics for every date
// of the return series with a complete window of cfg.Window returns
// ending at (and including) that date. Dates without full history
// produce no points at all; a series shorter than the window yields
// three empty feature series.
//
// The KS distance at a date is present only when the window meets
// cfg.MinWindow, the baseline meets cfg.MinBaseline, and the window
// holds no undefined values; otherwise that date is missing from the
// KS series while mean and volatility are still emitted.
func Rolling(rs models.ReturnSeries, base models.Baseline, cfg Config) (mean, vol, ks models.FeatureSeries) {
	mean = models.FeatureSeries{Name: NameRollMean}
	vol = models.FeatureSeries{Name: NameRollVol}
	ks = models.FeatureSeries{Name: NameRollKS}
	if cfg.Window <= 1 || len(rs) < cfg.Window {
		return mean, vol, ks
	}

	baseSorted := append([]float64(nil), base.Values...)
	sort.Float64s(baseSorted)
	baseOK := base.Reliable(cfg.MinBaseline)

	for i := cfg.Window - 1; i < len(rs); i++ {
		win := rs.Window(i, cfg.Window)
		date := rs[i].Date

		m := stat.Mean(win, nil)
		mean.Points = append(mean.Points, models.FeaturePoint{Date: date, Value: m})

		sd := stat.StdDev(win, nil) // sample std dev, N-1 denominator
		if sd < 0 || math.IsNaN(sd) {
			sd = 0
		}
		vol.Points = append(vol.Points, models.FeaturePoint{Date: date, Value: sd})

		if !baseOK || cfg.Window < cfg.MinWindow || hasNaN(win) {
			continue
		}
		d := ksDistance(win, baseSorted)
		ks.Points = append(ks.Points, models.FeaturePoint{Date: date, Value: d})
	}
	return mean, vol, ks
}

// ksDistance computes the two-sample Kolmogorov-Smirnov statistic
// between an unsorted window and an already-sorted baseline sample.
func ksDistance(window, baseSorted []float64) float64 {
	w := append([]float64(nil), window...)
	sort.Float64s(w)
	d := stat.KolmogorovSmirnov(w, nil, baseSorted, nil)
	// The accumulated ECDF steps can overshoot the unit bound by an
	// ulp for disjoint samples. The statistic lives in [0,1].
	return math.Min(math.Max(d, 0), 1)
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
