package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"BreakScan/internal/domain/models"
	"BreakScan/internal/domain/repository"
	"BreakScan/pkg/util"
)

// PriceSource decorates another PriceSource with a BytesCache so
// repeated runs over the same span do not hammer the provider. Cache
// failures degrade to a direct fetch, never to a run failure.
type PriceSource struct {
	inner repository.PriceSource
	cache BytesCache
	ttl   time.Duration
}

func NewPriceSource(inner repository.PriceSource, cache BytesCache, ttl time.Duration) *PriceSource {
	return &PriceSource{inner: inner, cache: cache, ttl: ttl}
}

func (s *PriceSource) DailyCloses(ctx context.Context, ticker string, from, to time.Time, adjusted bool) ([]models.PricePoint, error) {
	key := fmt.Sprintf("prices:%s:%s:%s:%t", ticker, util.FormatDay(from), util.FormatDay(to), adjusted)

	if b, ok, err := s.cache.GetBytes(key); err == nil && ok {
		var pts []models.PricePoint
		if err := json.Unmarshal(b, &pts); err == nil {
			return pts, nil
		}
	}

	pts, err := s.inner.DailyCloses(ctx, ticker, from, to, adjusted)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(pts); err == nil {
		_ = s.cache.SetBytes(key, b, s.ttl)
	}
	return pts, nil
}
