package usecase

import (
	"context"
	"sync"

	"BreakScan/internal/domain/models"
	drepo "BreakScan/internal/domain/repository"
	"BreakScan/internal/services/features"
	"BreakScan/pkg/config"
	applogger "BreakScan/pkg/logger"
)

// Deps are the collaborators of a full analysis run. Source, Sink,
// Metrics and Logger are required; Store, Alerts and Renderer are
// optional sinks that are skipped when nil.
type Deps struct {
	Source   drepo.PriceSource
	Sink     drepo.ReportSink
	Store    drepo.FeatureStore
	Alerts   drepo.AlertPublisher
	Renderer drepo.Renderer
	Metrics  drepo.Metrics
	Logger   *applogger.Logger

	// Registry, when set, receives the run's reports for serving over
	// HTTP after the batch completes.
	Registry *ReportRegistry
}

// RunAnalysis processes every configured asset through the pipeline,
// then aggregates, persists, renders and publishes. One asset failing
// never aborts the others: it is logged, counted and skipped. Assets
// run sequentially unless cfg.Analysis.Concurrency > 1, in which case
// a bounded worker pool fans them out; results are collected before
// aggregation, which is the single join point.
func RunAnalysis(ctx context.Context, cfg *config.Config, deps Deps) (*models.ComparisonBundle, error) {
	l := deps.Logger
	pipeline := NewAssetPipeline(deps.Source, deps.Metrics, l)

	start, end := cfg.Span()
	assets := cfg.Analysis.Assets
	reports := make([]*models.AssetReport, len(assets))
	errs := make([]error, len(assets))

	run := func(i int) {
		reports[i], errs[i] = pipeline.Run(ctx, AssetParams{
			Name:         assets[i].Name,
			Ticker:       assets[i].Ticker,
			Start:        start,
			End:          end,
			BaselineYear: cfg.Analysis.BaselineYear,
			Window:       cfg.Analysis.RollingWindow,
			MinWindow:    cfg.Analysis.MinWindow,
			MinBaseline:  cfg.Analysis.MinBaseline,
			Adjusted:     cfg.MarketData.Adjusted,
		})
	}

	if cfg.Analysis.Concurrency > 1 {
		sem := make(chan struct{}, cfg.Analysis.Concurrency)
		var wg sync.WaitGroup
		for i := range assets {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				run(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range assets {
			run(i)
		}
	}

	var ok []*models.AssetReport
	var skipped []string
	for i, a := range assets {
		if errs[i] != nil {
			skipped = append(skipped, a.Name)
			deps.Metrics.RecordAssetSkipped(a.Name, "data_unavailable")
			l.Warn("asset skipped", applogger.String("asset", a.Name), applogger.Error(errs[i]))
			continue
		}
		ok = append(ok, reports[i])
	}

	for _, r := range ok {
		emitAsset(ctx, cfg, deps, r)
	}

	bundle, err := Aggregate(ok, skipped)
	if deps.Registry != nil {
		deps.Registry.SetRun(ok, bundle)
	}
	if err != nil {
		l.Error("no assets produced data", applogger.Int("skipped", len(skipped)))
		return bundle, err
	}

	if err := deps.Sink.WriteComparison(ctx, bundle); err != nil {
		l.Error("write comparison", applogger.Error(err))
	}
	if deps.Renderer != nil {
		if err := deps.Renderer.Overlay(bundle); err != nil {
			l.Error("render overlay", applogger.Error(err))
		}
	}
	l.Info("analysis complete",
		applogger.Int("assets", len(ok)),
		applogger.Int("skipped", len(skipped)),
	)
	return bundle, nil
}

// emitAsset drives every per-asset output: CSV artifacts, crash slice,
// feature store, charts and break alerts. Output failures are logged
// and do not stop the remaining sinks.
func emitAsset(ctx context.Context, cfg *config.Config, deps Deps, r *models.AssetReport) {
	l := deps.Logger

	if err := deps.Sink.WriteReport(ctx, r); err != nil {
		l.Error("write report", applogger.String("asset", r.Name), applogger.Error(err))
	}
	if err := deps.Sink.WriteSummary(ctx, r.Summary); err != nil {
		l.Error("write summary", applogger.String("asset", r.Name), applogger.Error(err))
	}

	if cs, ce, hasCrash := cfg.CrashSpan(); hasCrash {
		slice, err := features.CrashWindow(r, cs, ce)
		if err != nil {
			l.Warn("crash window skipped", applogger.String("asset", r.Name), applogger.Error(err))
		} else if len(slice.Rows) > 0 {
			if err := deps.Sink.WriteCrashSlice(ctx, slice); err != nil {
				l.Error("write crash slice", applogger.String("asset", r.Name), applogger.Error(err))
			}
		}
	}

	if deps.Store != nil {
		if err := deps.Store.StoreReport(ctx, r); err != nil {
			l.Error("feature store", applogger.String("asset", r.Name), applogger.Error(err))
		}
	}
	if deps.Renderer != nil {
		if err := deps.Renderer.Dashboard(r); err != nil {
			l.Error("render dashboard", applogger.String("asset", r.Name), applogger.Error(err))
		}
		if err := deps.Renderer.Breakdown(r); err != nil {
			l.Error("render breakdown", applogger.String("asset", r.Name), applogger.Error(err))
		}
	}

	if deps.Alerts != nil {
		for _, a := range ScanAlerts(r, cfg.Analysis.AlertThreshold) {
			alert := a
			if err := deps.Alerts.Publish(ctx, &alert); err != nil {
				l.Error("publish alert", applogger.String("asset", r.Name), applogger.Error(err))
				continue
			}
			deps.Metrics.RecordAlert(a.Asset, a.Signal)
		}
	}
}
