package repository

import (
	"context"

	"BreakScan/internal/domain/models"
)

// FeatureStore is the optional columnar sink for computed feature
// rows, used for ad-hoc querying outside this process.
type FeatureStore interface {
	Init(ctx context.Context) error
	StoreReport(ctx context.Context, r *models.AssetReport) error
	Close() error
}
