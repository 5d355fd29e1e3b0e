package models

import (
	"testing"
	"time"
)

func TestReturnSeriesWindow(t *testing.T) {
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rs := make(ReturnSeries, 5)
	for i := range rs {
		rs[i] = ReturnPoint{Date: d.AddDate(0, 0, i), Value: float64(i)}
	}

	if w := rs.Window(1, 3); w != nil {
		t.Fatalf("too little history must give nil, got %v", w)
	}
	if w := rs.Window(5, 3); w != nil {
		t.Fatalf("index past the series must give nil, got %v", w)
	}
	if w := rs.Window(2, 0); w != nil {
		t.Fatalf("non-positive length must give nil, got %v", w)
	}

	w := rs.Window(3, 3)
	if len(w) != 3 || w[0] != 1 || w[1] != 2 || w[2] != 3 {
		t.Fatalf("window must end at the index inclusive, got %v", w)
	}
	full := rs.Window(4, 5)
	if len(full) != 5 || full[0] != 0 || full[4] != 4 {
		t.Fatalf("full-length window wrong: %v", full)
	}
}
