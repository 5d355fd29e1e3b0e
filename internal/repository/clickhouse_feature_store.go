package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"BreakScan/internal/domain/models"
	pkgch "BreakScan/pkg/clickhouse"
	applogger "BreakScan/pkg/logger"
)

// CHFeatureStore persists computed feature rows to ClickHouse so runs
// can be queried and compared outside this process. It is an optional
// sink; the analysis never depends on it succeeding.
type CHFeatureStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

func NewCHFeatureStore(client *pkgch.Client, l *applogger.Logger) *CHFeatureStore {
	return &CHFeatureStore{client: client, db: client.DB(), l: l}
}

var featureSchema = []string{
	`CREATE DATABASE IF NOT EXISTS breakscan`,
	`CREATE TABLE IF NOT EXISTS breakscan.feature_rows (
        asset       String,
        ticker      String,
        date        Date,
        log_return  Float64,
        roll_mean   Nullable(Float64),
        roll_vol    Nullable(Float64),
        roll_ks     Nullable(Float64),
        z_vol       Nullable(Float64),
        z_ks        Nullable(Float64),
        inserted_at DateTime DEFAULT now()
    ) ENGINE = ReplacingMergeTree(inserted_at)
    ORDER BY (asset, date)`,
}

// Init ensures the database and feature table exist. Idempotent.
func (s *CHFeatureStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, featureSchema)
}

// StoreReport batch-inserts one row per return date of the report.
// ReplacingMergeTree keyed on (asset, date) makes re-runs overwrite
// rather than duplicate.
func (s *CHFeatureStore) StoreReport(ctx context.Context, r *models.AssetReport) error {
	start := time.Now()

	mean := indexByDate(r.RollMean)
	vol := indexByDate(r.RollVol)
	ks := indexByDate(r.RollKS)
	zVol := indexByDate(r.ZVol)
	zKS := indexByDate(r.ZKS)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin feature batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO breakscan.feature_rows
            (asset, ticker, date, log_return, roll_mean, roll_vol, roll_ks, z_vol, z_ks)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare feature batch: %w", err)
	}
	defer stmt.Close()

	for _, rp := range r.Returns {
		_, err := stmt.ExecContext(ctx,
			r.Name, r.Ticker, rp.Date, rp.Value,
			nullable(mean, rp.Date),
			nullable(vol, rp.Date),
			nullable(ks, rp.Date),
			nullable(zVol, rp.Date),
			nullable(zKS, rp.Date),
		)
		if err != nil {
			_ = tx.Rollback()
			s.l.Error("clickhouse feature insert",
				applogger.String("asset", r.Name),
				applogger.Error(err),
			)
			return fmt.Errorf("insert feature row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit feature batch: %w", err)
	}

	s.l.Info("feature rows stored",
		applogger.String("asset", r.Name),
		applogger.Int("rows", len(r.Returns)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *CHFeatureStore) Close() error {
	return s.client.Close()
}

func nullable(m map[time.Time]float64, d time.Time) any {
	v, ok := m[d]
	if !ok {
		return nil
	}
	return v
}
