package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"BreakScan/internal/domain/models"
	"BreakScan/pkg/config"
	applogger "BreakScan/pkg/logger"
)

type fakeSource struct {
	prices map[string][]models.PricePoint
}

func (s *fakeSource) DailyCloses(_ context.Context, ticker string, _, _ time.Time, _ bool) ([]models.PricePoint, error) {
	return s.prices[ticker], nil
}

type recordingSink struct {
	mu         sync.Mutex
	reports    []string
	summaries  []string
	crashes    []string
	comparison *models.ComparisonBundle
}

func (s *recordingSink) WriteReport(_ context.Context, r *models.AssetReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r.Name)
	return nil
}

func (s *recordingSink) WriteSummary(_ context.Context, rec models.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, rec.Asset)
	return nil
}

func (s *recordingSink) WriteCrashSlice(_ context.Context, cs *models.CrashSlice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crashes = append(s.crashes, cs.Asset)
	return nil
}

func (s *recordingSink) WriteComparison(_ context.Context, b *models.ComparisonBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comparison = b
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordAssetProcessed(string)        {}
func (nopMetrics) RecordAssetSkipped(string, string)  {}
func (nopMetrics) RecordFetchLatency(string, float64) {}
func (nopMetrics) RecordSeriesLength(string, int)     {}
func (nopMetrics) RecordAlert(string, string)         {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func noisyPrices(n int, startYear int) []models.PricePoint {
	out := make([]models.PricePoint, n)
	d := time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		price *= math.Exp(0.01 * math.Sin(float64(i)*0.9))
		out[i] = models.PricePoint{Date: d.AddDate(0, 0, i), Close: price}
	}
	return out
}

func testConfig(t *testing.T, assets ...config.Asset) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
analysis:
  assets:
    - name: placeholder
      ticker: placeholder
  start_date: "2019-01-01"
  end_date: "2020-06-30"
  baseline_year: 2019
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Analysis.Assets = assets
	return cfg
}

func TestRunAnalysisSkipsEmptyAsset(t *testing.T) {
	src := &fakeSource{prices: map[string][]models.PricePoint{
		"GOOD": noisyPrices(400, 2019),
		"BAD":  nil,
	}}
	sink := &recordingSink{}
	cfg := testConfig(t,
		config.Asset{Name: "Alpha", Ticker: "GOOD"},
		config.Asset{Name: "Beta", Ticker: "BAD"},
	)

	bundle, err := RunAnalysis(context.Background(), cfg, Deps{
		Source:  src,
		Sink:    sink,
		Metrics: nopMetrics{},
		Logger:  testLogger(t),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(bundle.Summaries) != 1 || bundle.Summaries[0].Asset != "Alpha" {
		t.Fatalf("expected exactly Alpha in bundle, got %+v", bundle.Assets())
	}
	if len(bundle.Skipped) != 1 || bundle.Skipped[0] != "Beta" {
		t.Fatalf("expected Beta skipped, got %v", bundle.Skipped)
	}
	if len(sink.reports) != 1 || sink.reports[0] != "Alpha" {
		t.Fatalf("expected one written report, got %v", sink.reports)
	}
	if sink.comparison == nil {
		t.Fatalf("comparison must still be written")
	}
}

func TestRunAnalysisAllAssetsFail(t *testing.T) {
	src := &fakeSource{prices: map[string][]models.PricePoint{}}
	sink := &recordingSink{}
	cfg := testConfig(t, config.Asset{Name: "Alpha", Ticker: "NONE"})

	bundle, err := RunAnalysis(context.Background(), cfg, Deps{
		Source:  src,
		Sink:    sink,
		Metrics: nopMetrics{},
		Logger:  testLogger(t),
	})
	if !errors.Is(err, models.ErrNoDataAvailable) {
		t.Fatalf("expected ErrNoDataAvailable, got %v", err)
	}
	if len(bundle.Summaries) != 0 {
		t.Fatalf("bundle must be empty")
	}
	if sink.comparison != nil {
		t.Fatalf("comparison must not be written with no data")
	}
}

func TestRunAnalysisConcurrentMatchesSequential(t *testing.T) {
	src := &fakeSource{prices: map[string][]models.PricePoint{
		"A": noisyPrices(400, 2019),
		"B": noisyPrices(380, 2019),
		"C": noisyPrices(360, 2019),
	}}
	assets := []config.Asset{
		{Name: "A1", Ticker: "A"},
		{Name: "B1", Ticker: "B"},
		{Name: "C1", Ticker: "C"},
	}

	runWith := func(conc int) *models.ComparisonBundle {
		cfg := testConfig(t, assets...)
		cfg.Analysis.Concurrency = conc
		bundle, err := RunAnalysis(context.Background(), cfg, Deps{
			Source:  src,
			Sink:    &recordingSink{},
			Metrics: nopMetrics{},
			Logger:  testLogger(t),
		})
		if err != nil {
			t.Fatalf("run conc=%d: %v", conc, err)
		}
		return bundle
	}

	seq := runWith(1)
	par := runWith(3)
	if len(seq.Summaries) != len(par.Summaries) {
		t.Fatalf("summary count differs: %d vs %d", len(seq.Summaries), len(par.Summaries))
	}
	for i := range seq.Summaries {
		if seq.Summaries[i].Asset != par.Summaries[i].Asset {
			t.Fatalf("summary order differs at %d: %s vs %s",
				i, seq.Summaries[i].Asset, par.Summaries[i].Asset)
		}
		for j, m := range seq.Summaries[i].Metrics {
			if par.Summaries[i].Metrics[j].Value != m.Value {
				t.Fatalf("metric %s differs between sequential and concurrent runs", m.Name)
			}
		}
	}
}

func TestScanAlertsThreshold(t *testing.T) {
	d := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &models.AssetReport{
		Name: "Alpha",
		ZVol: models.ZSeries{Name: "Z_Vol", Points: []models.FeaturePoint{
			{Date: d, Value: 2.9},
			{Date: d.AddDate(0, 0, 1), Value: 3.0},
			{Date: d.AddDate(0, 0, 2), Value: 4.2},
		}},
		ZKS: models.ZSeries{Name: "Z_KS", Points: []models.FeaturePoint{
			{Date: d, Value: 3.5},
		}},
	}
	alerts := ScanAlerts(r, 3.0)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}
	for _, a := range alerts {
		if a.Score < 3.0 {
			t.Fatalf("alert below threshold: %+v", a)
		}
		if a.Asset != "Alpha" || a.Threshold != 3.0 {
			t.Fatalf("alert fields wrong: %+v", a)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	bundle, err := Aggregate(nil, []string{"Gone"})
	if !errors.Is(err, models.ErrNoDataAvailable) {
		t.Fatalf("expected ErrNoDataAvailable, got %v", err)
	}
	if len(bundle.Skipped) != 1 {
		t.Fatalf("skip list must propagate")
	}
}

func TestPipelineMissingBaselineYearStillCompletes(t *testing.T) {
	// Analysis span entirely in 2020 while the baseline year is 2019:
	// zero baseline observations. The asset must still complete, with
	// every KS value missing and a warning recorded.
	src := &fakeSource{prices: map[string][]models.PricePoint{
		"X": noisyPrices(200, 2020),
	}}
	p := NewAssetPipeline(src, nopMetrics{}, testLogger(t))
	r, err := p.Run(context.Background(), AssetParams{
		Name: "Lone", Ticker: "X",
		Start:        time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
		BaselineYear: 2019,
		Window:       21, MinWindow: 10, MinBaseline: 10,
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if r.RollKS.Len() != 0 {
		t.Fatalf("expected all KS values missing, got %d", r.RollKS.Len())
	}
	if r.RollMean.Len() == 0 || r.RollVol.Len() == 0 {
		t.Fatalf("mean/vol must be computed normally")
	}
	if len(r.Warnings) == 0 {
		t.Fatalf("expected an insufficient-baseline warning")
	}
}
