package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"BreakScan/internal/domain/models"
	"BreakScan/internal/services/features"
	applogger "BreakScan/pkg/logger"
	"BreakScan/pkg/util"
)

// CSVReportSink writes the per-asset and comparison artifacts as CSV
// files under a single output directory. Rows are emitted in date order
// and floats are formatted with the shortest exact representation, so
// two runs over the same input produce byte-identical files.
type CSVReportSink struct {
	dir string
	l   *applogger.Logger
}

func NewCSVReportSink(dir string, l *applogger.Logger) (*CSVReportSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &CSVReportSink{dir: dir, l: l}, nil
}

// WriteReport writes <asset>_full_metrics.csv: one row per date with a
// complete rolling window, holding the log-return and every rolling
// feature and z-score. Dates before the first complete window are
// dropped, not padded. Within a kept row a feature without a value at
// that date, such as KS under an insufficient baseline, gets an empty
// cell, never a zero.
func (s *CSVReportSink) WriteReport(_ context.Context, r *models.AssetReport) error {
	path := s.path(r.Name, "full_metrics")

	mean := indexByDate(r.RollMean)
	vol := indexByDate(r.RollVol)
	ks := indexByDate(r.RollKS)
	zVol := indexByDate(r.ZVol)
	zKS := indexByDate(r.ZKS)

	rows := make([][]string, 0, len(r.Returns)+1)
	rows = append(rows, []string{
		"Date", "Log_Return",
		features.NameRollMean, features.NameRollVol, features.NameRollKS,
		features.NameZVol, features.NameZKS,
	})
	for _, rp := range r.Returns {
		// The rolling mean exists exactly on the complete-window dates.
		if _, ok := mean[rp.Date]; !ok {
			continue
		}
		rows = append(rows, []string{
			util.FormatDay(rp.Date),
			fmtFloat(rp.Value),
			cell(mean, rp.Date),
			cell(vol, rp.Date),
			cell(ks, rp.Date),
			cell(zVol, rp.Date),
			cell(zKS, rp.Date),
		})
	}
	if err := s.writeFile(path, rows); err != nil {
		return err
	}
	s.l.Info("full metrics written",
		applogger.String("asset", r.Name),
		applogger.String("path", path),
		applogger.Int("rows", len(rows)-1),
	)
	return nil
}

// WriteSummary writes <asset>_summary.csv in long form, one metric per
// row, in the order the summarizer produced them.
func (s *CSVReportSink) WriteSummary(_ context.Context, rec models.SummaryRecord) error {
	path := s.path(rec.Asset, "summary")
	rows := [][]string{{"Market", "Metric", "Value"}}
	for _, m := range rec.Metrics {
		rows = append(rows, []string{rec.Asset, m.Name, fmtFloat(m.Value)})
	}
	return s.writeFile(path, rows)
}

// WriteCrashSlice writes <asset>_crash_metrics.csv with the locally
// re-z-scored crash window rows.
func (s *CSVReportSink) WriteCrashSlice(_ context.Context, cs *models.CrashSlice) error {
	path := s.path(cs.Asset, "crash_metrics")
	rows := make([][]string, 0, len(cs.Rows)+1)
	rows = append(rows, []string{
		"Date", "Log_Return", features.NameRollVol, features.NameRollKS,
		features.NameZVol, features.NameZKS,
	})
	for _, row := range cs.Rows {
		ksCell, zksCell := "", ""
		if row.HasKS {
			ksCell = fmtFloat(row.RollKS)
			zksCell = fmtFloat(row.ZKS)
		}
		rows = append(rows, []string{
			util.FormatDay(row.Date),
			fmtFloat(row.Return),
			fmtFloat(row.RollVol),
			ksCell,
			fmtFloat(row.ZVol),
			zksCell,
		})
	}
	return s.writeFile(path, rows)
}

// WriteComparison writes comparison_summary.csv, the stacked summary
// table of every asset that produced data. Skipped assets are listed in
// the log only, they have no rows.
func (s *CSVReportSink) WriteComparison(_ context.Context, b *models.ComparisonBundle) error {
	path := filepath.Join(s.dir, "comparison_summary.csv")
	rows := [][]string{{"Market", "Metric", "Value"}}
	for _, rec := range b.Summaries {
		for _, m := range rec.Metrics {
			rows = append(rows, []string{rec.Asset, m.Name, fmtFloat(m.Value)})
		}
	}
	if err := s.writeFile(path, rows); err != nil {
		return err
	}
	s.l.Info("comparison summary written",
		applogger.String("path", path),
		applogger.Int("assets", len(b.Summaries)),
		applogger.Int("skipped", len(b.Skipped)),
	)
	return nil
}

func (s *CSVReportSink) path(asset, suffix string) string {
	return filepath.Join(s.dir, slug(asset)+"_"+suffix+".csv")
}

func (s *CSVReportSink) writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// slug turns an asset display name into a stable file name fragment.
// "Nifty 50" becomes "nifty_50".
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func indexByDate(fs models.FeatureSeries) map[time.Time]float64 {
	if fs.Len() == 0 {
		return nil
	}
	m := make(map[time.Time]float64, fs.Len())
	for _, p := range fs.Points {
		m[p.Date] = p.Value
	}
	return m
}

func cell(m map[time.Time]float64, d time.Time) string {
	v, ok := m[d]
	if !ok {
		return ""
	}
	return fmtFloat(v)
}
