package util

import (
    "testing"
    "time"
)

func TestParseDay(t *testing.T) {
    got, ok := ParseDay("2020-02-15")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2020, 2, 15, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseDayInvalid(t *testing.T) {
    if _, ok := ParseDay("15/02/2020"); ok {
        t.Fatalf("expected failure for non-ISO layout")
    }
    if _, ok := ParseDay(""); ok {
        t.Fatalf("expected failure for empty input")
    }
}

func TestParseDayDefault(t *testing.T) {
    def := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
    if got := ParseDayDefault("", def); !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestWithinDays(t *testing.T) {
    from, _ := ParseDay("2020-02-15")
    to, _ := ParseDay("2020-04-01")
    mid, _ := ParseDay("2020-03-10")
    if !WithinDays(mid, from, to) {
        t.Fatalf("mid should be inside")
    }
    if !WithinDays(from, from, to) || !WithinDays(to, from, to) {
        t.Fatalf("bounds are inclusive")
    }
    before, _ := ParseDay("2020-02-14")
    if WithinDays(before, from, to) {
        t.Fatalf("day before range must be outside")
    }
}
