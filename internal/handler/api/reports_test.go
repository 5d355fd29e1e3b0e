package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"BreakScan/internal/domain/models"
	"BreakScan/internal/usecase"
	applogger "BreakScan/pkg/logger"
)

func apiLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func seededRegistry() *usecase.ReportRegistry {
	d := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	rep := &models.AssetReport{
		Name:   "Nifty 50",
		Ticker: "^NSEI",
		Returns: models.ReturnSeries{
			{Date: d, Value: 0.01},
			{Date: d.AddDate(0, 0, 1), Value: -0.02},
		},
		RollVol: models.FeatureSeries{Name: "Roll_Vol", Points: []models.FeaturePoint{
			{Date: d.AddDate(0, 0, 1), Value: 0.015},
		}},
		Summary: models.SummaryRecord{
			Asset:   "Nifty 50",
			Metrics: []models.SummaryMetric{{Name: "Skewness", Value: -0.4}},
		},
	}
	bundle := &models.ComparisonBundle{
		Summaries:  []models.SummaryRecord{rep.Summary},
		Volatility: map[string]models.ZSeries{},
		Skipped:    []string{"Gone"},
	}
	reg := usecase.NewReportRegistry()
	reg.SetRun([]*models.AssetReport{rep}, bundle)
	return reg
}

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewReportsHandler(apiLogger(t), seededRegistry()).RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSummaryEndpoint(t *testing.T) {
	rec := serve(t, "/api/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Data SummaryResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Data.Available {
		t.Fatalf("summary must be available after a run")
	}
	if len(body.Data.Assets) != 1 || body.Data.Assets[0].Asset != "Nifty 50" {
		t.Fatalf("unexpected assets: %+v", body.Data.Assets)
	}
	if body.Data.Assets[0].Metrics["Skewness"] != -0.4 {
		t.Fatalf("metric lost: %+v", body.Data.Assets[0].Metrics)
	}
	if len(body.Data.Skipped) != 1 || body.Data.Skipped[0] != "Gone" {
		t.Fatalf("skipped not surfaced: %+v", body.Data.Skipped)
	}
}

func TestReportEndpoint(t *testing.T) {
	rec := serve(t, "/api/reports/Nifty%2050")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data ReportResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Ticker != "^NSEI" || len(body.Data.Features) != 2 {
		t.Fatalf("unexpected report: %+v", body.Data)
	}
	first, second := body.Data.Features[0], body.Data.Features[1]
	if first.RollVol != nil {
		t.Fatalf("first row must have no rolling vol")
	}
	if second.RollVol == nil || *second.RollVol != 0.015 {
		t.Fatalf("second row rolling vol wrong: %+v", second)
	}
}

func TestReportEndpointDateRange(t *testing.T) {
	rec := serve(t, "/api/reports/Nifty%2050?from=2020-01-03&to=2020-01-03")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data ReportResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Features) != 1 || body.Data.Features[0].Date != "2020-01-03" {
		t.Fatalf("range must keep exactly the bounded date: %+v", body.Data.Features)
	}
}

func TestReportEndpointBadDateQuery(t *testing.T) {
	rec := serve(t, "/api/reports/Nifty%2050?from=03-01-2020")
	if rec.Code != http.StatusOK {
		t.Fatalf("envelope status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ERR_DATETIME") {
		t.Fatalf("expected a datetime validation error, got %s", rec.Body.String())
	}
}

func TestReportEndpointUnknownAsset(t *testing.T) {
	rec := serve(t, "/api/reports/Unknown")
	if rec.Code != http.StatusOK {
		t.Fatalf("envelope status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ERR_NOT_FOUND") {
		t.Fatalf("expected not found error, got %s", rec.Body.String())
	}
}
