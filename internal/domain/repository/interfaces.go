package repository

import (
	"context"
	"time"

	"BreakScan/internal/domain/models"
)

// PriceSource fetches daily closing prices for one ticker over a date
// range. Implementations own all provider-specific table shapes; the
// core only ever sees a clean closing-price-per-date series.
type PriceSource interface {
	DailyCloses(ctx context.Context, ticker string, from, to time.Time, adjusted bool) ([]models.PricePoint, error)
}

// ReportSink persists the finalized per-asset and cross-asset outputs
// as delimited tabular artifacts.
type ReportSink interface {
	WriteReport(ctx context.Context, r *models.AssetReport) error
	WriteSummary(ctx context.Context, s models.SummaryRecord) error
	WriteCrashSlice(ctx context.Context, cs *models.CrashSlice) error
	WriteComparison(ctx context.Context, b *models.ComparisonBundle) error
}

// AlertPublisher delivers break alerts to an external consumer.
type AlertPublisher interface {
	Publish(ctx context.Context, a *models.BreakAlert) error
	Close() error
}

// Renderer draws charts from finalized reports.
type Renderer interface {
	Dashboard(r *models.AssetReport) error
	Breakdown(r *models.AssetReport) error
	Overlay(b *models.ComparisonBundle) error
}

// Metrics records operational counters for the run.
type Metrics interface {
	RecordAssetProcessed(asset string)
	RecordAssetSkipped(asset, reason string)
	RecordFetchLatency(ticker string, seconds float64)
	RecordSeriesLength(asset string, points int)
	RecordAlert(asset, signal string)
}
