package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"BreakScan/internal/domain/models"
	applogger "BreakScan/pkg/logger"
)

func renderLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func renderReport() *models.AssetReport {
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var returns models.ReturnSeries
	var vol, zvol []models.FeaturePoint
	for i := 0; i < 120; i++ {
		returns = append(returns, models.ReturnPoint{
			Date:  d.AddDate(0, 0, i),
			Value: 0.01 * math.Sin(float64(i)*0.7),
		})
		vol = append(vol, models.FeaturePoint{Date: d.AddDate(0, 0, i), Value: 0.01 + 0.001*float64(i%10)})
		zvol = append(zvol, models.FeaturePoint{Date: d.AddDate(0, 0, i), Value: float64(i%7) - 3})
	}
	return &models.AssetReport{
		Name:    "Nifty 50",
		Returns: returns,
		RollVol: models.FeatureSeries{Name: "Roll_Vol", Points: vol},
		ZVol:    models.ZSeries{Name: "Z_Vol", Points: zvol},
	}
}

func TestDashboardWritesPNG(t *testing.T) {
	dir := t.TempDir()
	r, err := NewPlotRenderer(dir, 3.0, renderLogger(t))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	if err := r.Dashboard(renderReport()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	fi, err := os.Stat(filepath.Join(dir, "nifty_50_dashboard.png"))
	if err != nil {
		t.Fatalf("missing dashboard png: %v", err)
	}
	if fi.Size() == 0 {
		t.Fatalf("dashboard png is empty")
	}
}

func TestOverlayWritesPNG(t *testing.T) {
	dir := t.TempDir()
	r, err := NewPlotRenderer(dir, 3.0, renderLogger(t))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	rep := renderReport()
	bundle := &models.ComparisonBundle{
		Volatility: map[string]models.ZSeries{rep.Name: rep.ZVol},
	}
	if err := r.Overlay(bundle); err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "volatility_comparison.png")); err != nil {
		t.Fatalf("missing overlay png: %v", err)
	}
}
