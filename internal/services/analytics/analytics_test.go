package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"BreakScan/internal/domain/models"
)

func TestADFWhiteNoiseStationary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	xs := make([]float64, 500)
	for i := range xs {
		xs[i] = rng.NormFloat64()
	}
	res, err := ADF(xs)
	if err != nil {
		t.Fatalf("adf: %v", err)
	}
	if res.PValue > 0.05 {
		t.Fatalf("white noise should reject the unit root, got p=%v (stat=%v)", res.PValue, res.Statistic)
	}
}

func TestADFRandomWalkNonStationary(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	xs := make([]float64, 500)
	level := 0.0
	for i := range xs {
		level += rng.NormFloat64()
		xs[i] = level
	}
	res, err := ADF(xs)
	if err != nil {
		t.Fatalf("adf: %v", err)
	}
	if res.PValue < 0.05 {
		t.Fatalf("random walk should not reject the unit root, got p=%v (stat=%v)", res.PValue, res.Statistic)
	}
}

func TestADFTooShort(t *testing.T) {
	if _, err := ADF(make([]float64, 5)); err == nil {
		t.Fatalf("expected error for short series")
	}
}

func TestJarqueBeraGaussian(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = rng.NormFloat64()
	}
	_, p, err := JarqueBera(xs)
	if err != nil {
		t.Fatalf("jb: %v", err)
	}
	if p < 0.01 {
		t.Fatalf("gaussian sample rejected normality too hard: p=%v", p)
	}
}

func TestJarqueBeraHeavyTails(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	xs := make([]float64, 1000)
	for i := range xs {
		x := rng.NormFloat64()
		xs[i] = x * x * x // strongly non-Gaussian
	}
	_, p, err := JarqueBera(xs)
	if err != nil {
		t.Fatalf("jb: %v", err)
	}
	if p > 1e-4 {
		t.Fatalf("heavy-tailed sample should reject normality, got p=%v", p)
	}
}

func TestSummarizeMetricsComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	rs := make(models.ReturnSeries, 300)
	d := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rs {
		rs[i] = models.ReturnPoint{Date: d.AddDate(0, 0, i), Value: 0.01 * rng.NormFloat64()}
	}
	rec, err := Summarize("NIFTY", rs)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := []string{MetricADFStat, MetricADFP, MetricJBP, MetricSkewness, MetricKurtosis}
	if len(rec.Metrics) != len(want) {
		t.Fatalf("expected %d metrics, got %d", len(want), len(rec.Metrics))
	}
	for i, m := range rec.Metrics {
		if m.Name != want[i] {
			t.Fatalf("metric %d = %q, want %q", i, m.Name, want[i])
		}
		if math.IsNaN(m.Value) {
			t.Fatalf("metric %q is NaN", m.Name)
		}
	}
	if rec.Asset != "NIFTY" {
		t.Fatalf("asset name lost: %q", rec.Asset)
	}
}
