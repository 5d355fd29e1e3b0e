package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"BreakScan/internal/usecase"
	"BreakScan/pkg/config"
	xhttp "BreakScan/pkg/http"
	applogger "BreakScan/pkg/logger"
)

// App runs one full analysis pass and then, when the HTTP surface is
// enabled, keeps serving the results until interrupted. With the
// server disabled it is a plain batch tool: analyze, write artifacts,
// exit.
type App struct {
	cfg     *config.Config
	l       *applogger.Logger
	deps    usecase.Deps
	handler xhttp.Handler
	httpSrv *xhttp.Server
}

// New creates the App from already-wired collaborators.
func New(cfg *config.Config, l *applogger.Logger, deps usecase.Deps, handler xhttp.Handler) *App {
	return &App{cfg: cfg, l: l, deps: deps, handler: handler}
}

// Run executes the analysis and blocks while serving, if configured.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	if a.deps.Store != nil {
		if err := a.deps.Store.Init(ctx); err != nil {
			a.l.Error("feature store init failed, disabling", applogger.Error(err))
			a.deps.Store = nil
		}
	}

	collector := applogger.NewCollector()
	a.l.AddCollector(collector)

	_, runErr := usecase.RunAnalysis(ctx, a.cfg, a.deps)

	if diags := collector.Drain(); len(diags) > 0 {
		a.l.Info("run diagnostics", applogger.Int("events", len(diags)))
		for _, d := range diags {
			a.l.Info("diagnostic",
				applogger.String("level", d.Level),
				applogger.String("message", d.Message),
				applogger.Any("fields", d.Fields),
			)
		}
	}
	if runErr != nil && !a.cfg.Server.Enabled {
		return runErr
	}
	if runErr != nil {
		a.l.Error("analysis failed, serving empty results", applogger.Error(runErr))
	}

	if !a.cfg.Server.Enabled {
		return nil
	}

	a.httpSrv = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpSrv.Start(); err != nil {
		return err
	}
	a.l.Info("serving results", applogger.Int("port", a.cfg.Server.Port))

	<-ctx.Done()
	a.l.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	return nil
}

// close releases infrastructure clients. Best effort, errors are
// logged only.
func (a *App) close() {
	if a.deps.Store != nil {
		if err := a.deps.Store.Close(); err != nil {
			a.l.Warn("feature store close error", applogger.Error(err))
		}
	}
	if a.deps.Alerts != nil {
		if err := a.deps.Alerts.Close(); err != nil {
			a.l.Warn("alert publisher close error", applogger.Error(err))
		}
	}
}
