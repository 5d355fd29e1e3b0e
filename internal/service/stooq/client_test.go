package stooq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BreakScan/internal/domain/models"
)

func serveCSV(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "d" {
			t.Errorf("expected daily interval param, got %q", r.URL.Query().Get("i"))
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
}

func TestDailyClosesStandardTable(t *testing.T) {
	srv := serveCSV(t, "Date,Open,High,Low,Close,Volume\n"+
		"2020-01-02,100,101,99,100.5,1000\n"+
		"2020-01-03,100.5,102,100,101.2,1100\n")
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pts, err := c.DailyCloses(context.Background(), "^NSEI", day(2020, 1, 1), day(2020, 1, 31), true)
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Close != 100.5 || pts[1].Close != 101.2 {
		t.Fatalf("wrong closes: %+v", pts)
	}
}

func TestDailyClosesCaseInsensitiveAndPrefixed(t *testing.T) {
	srv := serveCSV(t, "date,NSEI.close\n2020-01-02,100.5\n")
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pts, err := c.DailyCloses(context.Background(), "^NSEI", day(2020, 1, 1), day(2020, 1, 31), true)
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(pts) != 1 || pts[0].Close != 100.5 {
		t.Fatalf("prefixed close column not found: %+v", pts)
	}
}

func TestDailyClosesFallbackToFirstNumeric(t *testing.T) {
	srv := serveCSV(t, "Date,Label,Last\n"+
		"2020-01-02,a,100.5\n"+
		"2020-01-03,b,101.2\n")
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pts, err := c.DailyCloses(context.Background(), "^BSESN", day(2020, 1, 1), day(2020, 1, 31), true)
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(pts) != 2 || pts[0].Close != 100.5 {
		t.Fatalf("numeric fallback failed: %+v", pts)
	}
}

func TestDailyClosesNoNumericColumn(t *testing.T) {
	srv := serveCSV(t, "Date,Label\n2020-01-02,a\n")
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.DailyCloses(context.Background(), "^BSESN", day(2020, 1, 1), day(2020, 1, 31), true)
	var nf *models.NormalizationFailure
	if !errors.As(err, &nf) {
		t.Fatalf("expected NormalizationFailure, got %v", err)
	}
}

func TestDailyClosesSortsAndDeduplicates(t *testing.T) {
	srv := serveCSV(t, "Date,Close\n"+
		"2020-01-03,101.2\n"+
		"2020-01-02,100.5\n"+
		"2020-01-02,999\n")
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pts, err := c.DailyCloses(context.Background(), "^NSEI", day(2020, 1, 1), day(2020, 1, 31), true)
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(pts) != 2 {
		t.Fatalf("expected dedup to 2 points, got %d", len(pts))
	}
	if !pts[0].Date.Before(pts[1].Date) {
		t.Fatalf("points not sorted: %+v", pts)
	}
	if pts[0].Close != 100.5 {
		t.Fatalf("first occurrence must win on duplicate dates, got %v", pts[0].Close)
	}
}

func TestDailyClosesEmptyBody(t *testing.T) {
	srv := serveCSV(t, "Date,Close\n")
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pts, err := c.DailyCloses(context.Background(), "^NSEI", day(2020, 1, 1), day(2020, 1, 31), true)
	if err != nil {
		t.Fatalf("daily closes: %v", err)
	}
	if len(pts) != 0 {
		t.Fatalf("expected no points, got %d", len(pts))
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
