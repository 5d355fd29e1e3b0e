package cache

import (
	"context"
	"testing"
	"time"

	"BreakScan/internal/domain/models"
)

type countingSource struct {
	calls int
	pts   []models.PricePoint
}

func (s *countingSource) DailyCloses(_ context.Context, _ string, _, _ time.Time, _ bool) ([]models.PricePoint, error) {
	s.calls++
	return s.pts, nil
}

func TestPriceSourceCachesSecondFetch(t *testing.T) {
	inner := &countingSource{pts: []models.PricePoint{
		{Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100.5},
	}}
	src := NewPriceSource(inner, NewTTLCache(), time.Hour)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		pts, err := src.DailyCloses(context.Background(), "^NSEI", from, to, true)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(pts) != 1 || pts[0].Close != 100.5 {
			t.Fatalf("fetch %d wrong points: %+v", i, pts)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner source called %d times, want 1", inner.calls)
	}
}

func TestPriceSourceDistinctSpansMiss(t *testing.T) {
	inner := &countingSource{}
	src := NewPriceSource(inner, NewTTLCache(), time.Hour)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	if _, err := src.DailyCloses(ctx, "^NSEI", from, from.AddDate(0, 1, 0), true); err != nil {
		t.Fatal(err)
	}
	if _, err := src.DailyCloses(ctx, "^NSEI", from, from.AddDate(0, 2, 0), true); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Fatalf("different spans must not share cache entries, calls=%d", inner.calls)
	}
}
