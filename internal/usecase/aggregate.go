package usecase

import (
	"BreakScan/internal/domain/models"
)

// Aggregate combines the finalized reports of all assets that made it
// through the pipeline. Summaries are concatenated in input order;
// each asset's z-scored volatility keeps its native trading calendar,
// there is no cross-asset reindexing. With zero successful assets the
// bundle is empty and ErrNoDataAvailable is returned alongside it so
// the caller can report rather than crash.
func Aggregate(reports []*models.AssetReport, skipped []string) (*models.ComparisonBundle, error) {
	bundle := &models.ComparisonBundle{
		Volatility: make(map[string]models.ZSeries, len(reports)),
		Skipped:    skipped,
	}
	for _, r := range reports {
		bundle.Summaries = append(bundle.Summaries, r.Summary)
		if r.ZVol.Len() > 0 {
			bundle.Volatility[r.Name] = r.ZVol
		}
	}
	if len(reports) == 0 {
		return bundle, models.ErrNoDataAvailable
	}
	return bundle, nil
}

// ScanAlerts finds every z-scored point at or above the alert
// threshold in the report's break-signal series.
func ScanAlerts(r *models.AssetReport, threshold float64) []models.BreakAlert {
	var alerts []models.BreakAlert
	scan := func(z models.ZSeries, signal string) {
		for _, p := range z.Points {
			if p.Value >= threshold {
				alerts = append(alerts, models.BreakAlert{
					Asset:     r.Name,
					Date:      p.Date,
					Signal:    signal,
					Score:     p.Value,
					Threshold: threshold,
				})
			}
		}
	}
	scan(r.ZVol, "z_vol")
	scan(r.ZKS, "z_ks")
	return alerts
}
