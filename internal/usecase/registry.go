package usecase

import (
	"sync"

	"BreakScan/internal/domain/models"
)

// ReportRegistry holds the finalized reports of the most recent run so
// the HTTP surface can serve them after the batch completes. Reads and
// the single post-run write may overlap when the server is already up.
type ReportRegistry struct {
	mu      sync.RWMutex
	reports map[string]*models.AssetReport
	bundle  *models.ComparisonBundle
}

func NewReportRegistry() *ReportRegistry {
	return &ReportRegistry{reports: make(map[string]*models.AssetReport)}
}

// SetRun replaces the registry contents with a completed run's output.
func (r *ReportRegistry) SetRun(reports []*models.AssetReport, bundle *models.ComparisonBundle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = make(map[string]*models.AssetReport, len(reports))
	for _, rep := range reports {
		r.reports[rep.Name] = rep
	}
	r.bundle = bundle
}

// Report returns one asset's report by display name.
func (r *ReportRegistry) Report(name string) (*models.AssetReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[name]
	return rep, ok
}

// Bundle returns the comparison bundle of the last run, nil before any
// run has completed.
func (r *ReportRegistry) Bundle() *models.ComparisonBundle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bundle
}
