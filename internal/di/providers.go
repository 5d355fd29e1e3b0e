package di

import (
	"fmt"
	"path/filepath"

	"BreakScan/internal/domain/repository"
	"BreakScan/internal/handler/api"
	"BreakScan/internal/service/render"
	internalrepo "BreakScan/internal/repository"
	icache "BreakScan/internal/service/cache"
	"BreakScan/internal/service/stooq"
	"BreakScan/internal/usecase"
	pkgch "BreakScan/pkg/clickhouse"
	"BreakScan/pkg/config"
	xhttp "BreakScan/pkg/http"
	pkgkafka "BreakScan/pkg/kafka"
	applogger "BreakScan/pkg/logger"
	"BreakScan/pkg/metrics"
	"BreakScan/pkg/server"
)

// ProvideLogger creates the structured logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus recorder, or a no-op one when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvidePriceSource creates the Stooq client wrapped in the configured
// cache backend.
func ProvidePriceSource(cfg *config.Config) (repository.PriceSource, error) {
	client := stooq.New(cfg.MarketData.BaseURL, cfg.MarketData.Timeout)

	var backend icache.BytesCache
	switch cfg.Cache.Backend {
	case "memory":
		backend = icache.NewTTLCache()
	case "redis":
		backend = icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case "layered":
		backend = icache.NewLayered(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}))
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	return icache.NewPriceSource(client, backend, cfg.Cache.TTL), nil
}

// ProvideReportSink creates the CSV sink in the output directory.
func ProvideReportSink(cfg *config.Config, l *applogger.Logger) (repository.ReportSink, error) {
	return internalrepo.NewCSVReportSink(cfg.Output.Dir, l)
}

// ProvideFeatureStore creates the ClickHouse-backed feature store, nil
// when ClickHouse is disabled.
func ProvideFeatureStore(cfg *config.Config, l *applogger.Logger) (repository.FeatureStore, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return internalrepo.NewCHFeatureStore(client, l), nil
}

// ProvideAlertPublisher creates the Kafka break-alert publisher, nil
// when Kafka is disabled.
func ProvideAlertPublisher(cfg *config.Config, l *applogger.Logger) (repository.AlertPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.Topic, l), nil
}

// ProvideRenderer creates the chart renderer, nil when charts are
// disabled.
func ProvideRenderer(cfg *config.Config, l *applogger.Logger) (repository.Renderer, error) {
	if !cfg.Output.Charts {
		return nil, nil
	}
	return render.NewPlotRenderer(
		filepath.Join(cfg.Output.Dir, "charts"),
		cfg.Analysis.AlertThreshold,
		l,
	)
}

// ProvideRegistry creates the in-memory report registry for the HTTP
// surface.
func ProvideRegistry() *usecase.ReportRegistry {
	return usecase.NewReportRegistry()
}

// ProvideDeps bundles the run collaborators.
func ProvideDeps(
	source repository.PriceSource,
	sink repository.ReportSink,
	store repository.FeatureStore,
	alerts repository.AlertPublisher,
	renderer repository.Renderer,
	m repository.Metrics,
	l *applogger.Logger,
	registry *usecase.ReportRegistry,
) usecase.Deps {
	return usecase.Deps{
		Source:   source,
		Sink:     sink,
		Store:    store,
		Alerts:   alerts,
		Renderer: renderer,
		Metrics:  m,
		Logger:   l,
		Registry: registry,
	}
}

// ProvideHandler creates the HTTP handler serving run results.
func ProvideHandler(l *applogger.Logger, registry *usecase.ReportRegistry) xhttp.Handler {
	return api.NewReportsHandler(l, registry)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, l *applogger.Logger, deps usecase.Deps, handler xhttp.Handler) *server.App {
	return server.New(cfg, l, deps, handler)
}
