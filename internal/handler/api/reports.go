package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"BreakScan/internal/domain/models"
	"BreakScan/internal/usecase"
	xhttp "BreakScan/pkg/http"
	xlogger "BreakScan/pkg/logger"
)

// ReportsHandler serves the results of the most recent analysis run.
type ReportsHandler struct {
	logger   *xlogger.Logger
	registry *usecase.ReportRegistry
}

func NewReportsHandler(logger *xlogger.Logger, registry *usecase.ReportRegistry) *ReportsHandler {
	return &ReportsHandler{logger: logger, registry: registry}
}

func (h *ReportsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/summary", h.Summary)
	g.GET("/reports/:name", h.Report)
}

// SummaryResponse is the cross-asset view of the last run.
type SummaryResponse struct {
	Assets    []AssetSummary `json:"assets"`
	Skipped   []string       `json:"skipped,omitempty"`
	Available bool           `json:"available"`
}

type AssetSummary struct {
	Asset   string             `json:"asset"`
	Metrics map[string]float64 `json:"metrics"`
}

// ReportResponse is one asset's full feature output.
type ReportResponse struct {
	Asset    string             `json:"asset"`
	Ticker   string             `json:"ticker"`
	Metrics  map[string]float64 `json:"metrics"`
	Features []FeatureRow       `json:"features"`
	Warnings []string           `json:"warnings,omitempty"`
}

// ReportQuery narrows a report to a date range. Bounds are inclusive
// and optional.
type ReportQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// FeatureRow is one date's values. Pointers distinguish a missing
// value from zero.
type FeatureRow struct {
	Date      string   `json:"date"`
	LogReturn float64  `json:"log_return"`
	RollMean  *float64 `json:"roll_mean,omitempty"`
	RollVol   *float64 `json:"roll_vol,omitempty"`
	RollKS    *float64 `json:"roll_ks,omitempty"`
	ZVol      *float64 `json:"z_vol,omitempty"`
	ZKS       *float64 `json:"z_ks,omitempty"`
}

func (h *ReportsHandler) Summary(c echo.Context) error {
	bundle := h.registry.Bundle()
	if bundle == nil {
		return xhttp.SuccessResponse(c, &SummaryResponse{Available: false})
	}
	resp := &SummaryResponse{Available: true, Skipped: bundle.Skipped}
	for _, rec := range bundle.Summaries {
		resp.Assets = append(resp.Assets, AssetSummary{
			Asset:   rec.Asset,
			Metrics: metricMap(rec),
		})
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *ReportsHandler) Report(c echo.Context) error {
	q := &ReportQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	name := c.Param("name")
	rep, ok := h.registry.Report(name)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no report for asset %q", name))
	}
	return xhttp.SuccessResponse(c, buildReportResponse(rep, q))
}

func buildReportResponse(rep *models.AssetReport, q *ReportQuery) *ReportResponse {
	mean := pointerIndex(rep.RollMean)
	vol := pointerIndex(rep.RollVol)
	ks := pointerIndex(rep.RollKS)
	zVol := pointerIndex(rep.ZVol)
	zKS := pointerIndex(rep.ZKS)

	rows := make([]FeatureRow, 0, len(rep.Returns))
	for _, rp := range rep.Returns {
		// ISO dates compare lexicographically, the query bounds are
		// validated to the same layout.
		d := rp.Date.Format("2006-01-02")
		if (q.From != "" && d < q.From) || (q.To != "" && d > q.To) {
			continue
		}
		rows = append(rows, FeatureRow{
			Date:      d,
			LogReturn: rp.Value,
			RollMean:  mean[rp.Date],
			RollVol:   vol[rp.Date],
			RollKS:    ks[rp.Date],
			ZVol:      zVol[rp.Date],
			ZKS:       zKS[rp.Date],
		})
	}
	return &ReportResponse{
		Asset:    rep.Name,
		Ticker:   rep.Ticker,
		Metrics:  metricMap(rep.Summary),
		Features: rows,
		Warnings: rep.Warnings,
	}
}

func metricMap(rec models.SummaryRecord) map[string]float64 {
	m := make(map[string]float64, len(rec.Metrics))
	for _, metric := range rec.Metrics {
		m[metric.Name] = metric.Value
	}
	return m
}

func pointerIndex(fs models.FeatureSeries) map[time.Time]*float64 {
	m := make(map[time.Time]*float64, fs.Len())
	for _, p := range fs.Points {
		v := p.Value
		m[p.Date] = &v
	}
	return m
}
