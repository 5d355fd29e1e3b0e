package usecase

import (
	"context"
	"fmt"
	"time"

	"BreakScan/internal/domain/models"
	drepo "BreakScan/internal/domain/repository"
	"BreakScan/internal/services/analytics"
	"BreakScan/internal/services/features"
	applogger "BreakScan/pkg/logger"
)

// AssetParams is everything one asset's pipeline run needs. It is an
// explicit value so several independent analyses (different spans,
// windows, baselines) can run in one process without interference.
type AssetParams struct {
	Name   string
	Ticker string

	Start time.Time
	End   time.Time

	BaselineYear int
	Window       int
	MinWindow    int
	MinBaseline  int
	Adjusted     bool
}

// AssetPipeline runs the per-asset stages: fetch, prepare, baseline,
// diagnostics, rolling features, normalize. Each stage is a pure
// value-to-value transformation; the report is assembled once at the
// end and never mutated afterwards.
type AssetPipeline struct {
	source  drepo.PriceSource
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewAssetPipeline(source drepo.PriceSource, metrics drepo.Metrics, logger *applogger.Logger) *AssetPipeline {
	return &AssetPipeline{source: source, metrics: metrics, logger: logger}
}

// Run executes the full pipeline for one asset. A fetch failure or an
// effectively empty series returns ErrDataUnavailable (wrapped); every
// other degradation is recorded as a warning on the report and the run
// completes.
func (p *AssetPipeline) Run(ctx context.Context, params AssetParams) (*models.AssetReport, error) {
	start := time.Now()
	prices, err := p.source.DailyCloses(ctx, params.Ticker, params.Start, params.End, params.Adjusted)
	p.metrics.RecordFetchLatency(params.Ticker, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", params.Name, models.ErrDataUnavailable, err)
	}

	returns := features.LogReturns(prices)
	if len(returns) < 2 {
		return nil, fmt.Errorf("%s (%d prices, %d usable returns): %w",
			params.Name, len(prices), len(returns), models.ErrDataUnavailable)
	}
	p.metrics.RecordSeriesLength(params.Name, len(returns))

	var warnings []string

	baseline := features.ExtractBaseline(returns, params.BaselineYear)
	if !baseline.Reliable(params.MinBaseline) {
		w := fmt.Sprintf("baseline year %d has %d observations, below minimum %d; KS distances will be missing",
			params.BaselineYear, len(baseline.Values), params.MinBaseline)
		warnings = append(warnings, w)
		p.logger.Warn("insufficient baseline",
			applogger.String("asset", params.Name),
			applogger.Int("baseline_year", params.BaselineYear),
			applogger.Int("observations", len(baseline.Values)),
		)
	}

	summary, err := analytics.Summarize(params.Name, returns)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("diagnostics unavailable: %v", err))
		p.logger.Warn("diagnostics unavailable",
			applogger.String("asset", params.Name), applogger.Error(err))
		summary = models.SummaryRecord{Asset: params.Name}
	}

	mean, vol, ks := features.Rolling(returns, baseline, features.Config{
		Window:      params.Window,
		MinWindow:   params.MinWindow,
		MinBaseline: params.MinBaseline,
	})

	zVol, err := features.ZScore(vol, features.NameZVol)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("volatility z-score: %v", err))
		p.logger.Warn("volatility z-score undefined",
			applogger.String("asset", params.Name), applogger.Error(err))
	}
	var zKS models.ZSeries
	if ks.Len() > 0 {
		zKS, err = features.ZScore(ks, features.NameZKS)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("KS z-score: %v", err))
			p.logger.Warn("KS z-score undefined",
				applogger.String("asset", params.Name), applogger.Error(err))
		}
	}

	p.metrics.RecordAssetProcessed(params.Name)
	return &models.AssetReport{
		Name:     params.Name,
		Ticker:   params.Ticker,
		Returns:  returns,
		Baseline: baseline,
		RollMean: mean,
		RollVol:  vol,
		RollKS:   ks,
		ZVol:     zVol,
		ZKS:      zKS,
		Summary:  summary,
		Warnings: warnings,
	}, nil
}
