//go:build wireinject
// +build wireinject

package di

import (
	"BreakScan/pkg/config"
	"BreakScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Adapters
		ProvidePriceSource,
		ProvideReportSink,
		ProvideFeatureStore,
		ProvideAlertPublisher,
		ProvideRenderer,

		// Serving surface
		ProvideRegistry,
		ProvideHandler,

		// Application
		ProvideDeps,
		ProvideApp,
	)
	return &server.App{}, nil
}
