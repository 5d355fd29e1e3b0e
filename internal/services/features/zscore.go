package features

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"BreakScan/internal/domain/models"
)

// ZScore standardizes a feature series over its own defined values:
// (x - mean) / sample std dev. Missing inputs are already absent from
// the series, so they are naturally excluded rather than zero-filled.
// A series with fewer than two points or zero variance has no defined
// z transform; that is signaled as ErrUndefinedNormalization instead
// of silently dividing by zero.
func ZScore(fs models.FeatureSeries, name string) (models.ZSeries, error) {
	z := models.ZSeries{Name: name}
	if fs.Len() < 2 {
		return z, fmt.Errorf("%s from %s (%d points): %w", name, fs.Name, fs.Len(), models.ErrUndefinedNormalization)
	}
	vals := fs.Values()
	m := stat.Mean(vals, nil)
	sd := stat.StdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return z, fmt.Errorf("%s from %s: %w", name, fs.Name, models.ErrUndefinedNormalization)
	}
	z.Points = make([]models.FeaturePoint, fs.Len())
	for i, p := range fs.Points {
		z.Points[i] = models.FeaturePoint{Date: p.Date, Value: (p.Value - m) / sd}
	}
	return z, nil
}

// CrashWindow cuts the report down to [start, end] and re-z-scores
// rolling volatility and KS distance using only the sub-window's own
// statistics. These local z-scores answer "how extreme within the
// crash episode", which is a different number from the whole-series
// ZVol/ZKS on the report, and the two are kept strictly apart.
func CrashWindow(r *models.AssetReport, start, end time.Time) (*models.CrashSlice, error) {
	cs := &models.CrashSlice{Asset: r.Name, Start: start, End: end}

	rets := make(map[time.Time]float64, len(r.Returns))
	for _, p := range r.Returns {
		rets[p.Date] = p.Value
	}
	ksVals := make(map[time.Time]float64, r.RollKS.Len())
	for _, p := range r.RollKS.Points {
		ksVals[p.Date] = p.Value
	}

	volSlice := r.RollVol.Slice(start, end)
	for _, p := range volSlice.Points {
		row := models.CrashRow{Date: p.Date, Return: rets[p.Date], RollVol: p.Value}
		if k, ok := ksVals[p.Date]; ok {
			row.RollKS = k
			row.HasKS = true
		}
		cs.Rows = append(cs.Rows, row)
	}
	if len(cs.Rows) == 0 {
		return cs, nil
	}

	zv, err := ZScore(volSlice, NameZVol)
	if err != nil {
		return nil, fmt.Errorf("crash window %s: %w", r.Name, err)
	}
	for i := range cs.Rows {
		cs.Rows[i].ZVol = zv.Points[i].Value
	}

	ksSlice := r.RollKS.Slice(start, end)
	if ksSlice.Len() == 0 {
		return cs, nil
	}
	zk, err := ZScore(ksSlice, NameZKS)
	if err != nil {
		return nil, fmt.Errorf("crash window %s: %w", r.Name, err)
	}
	zkByDate := make(map[time.Time]float64, zk.Len())
	for _, p := range zk.Points {
		zkByDate[p.Date] = p.Value
	}
	for i := range cs.Rows {
		if cs.Rows[i].HasKS {
			cs.Rows[i].ZKS = zkByDate[cs.Rows[i].Date]
		}
	}
	return cs, nil
}
