package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"BreakScan/internal/domain/models"
	xhttp "BreakScan/pkg/http"
	"BreakScan/pkg/util"
)

// Client implements a PriceSource backed by a Stooq-compatible daily
// CSV endpoint: one GET per asset returns the whole requested span.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// New creates a new Stooq PriceSource.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// DailyCloses downloads and normalizes daily closing prices for one
// ticker. Provider table shapes stay inside this adapter: whatever the
// CSV looks like, the caller gets a sorted, deduplicated
// closing-price-per-date series or a typed NormalizationFailure.
func (c *Client) DailyCloses(ctx context.Context, ticker string, from, to time.Time, adjusted bool) ([]models.PricePoint, error) {
	adj := "0"
	if adjusted {
		adj = "1"
	}
	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"s":  {strings.ToLower(ticker)},
			"d1": {from.Format("20060102")},
			"d2": {to.Format("20060102")},
			"i":  {"d"},
			"a":  {adj},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	return parseDaily(ticker, body)
}

func parseDaily(ticker string, body []byte) ([]models.PricePoint, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv for %s: %w", ticker, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := records[1:]

	dateCol := findColumn(header, "date")
	if dateCol < 0 {
		return nil, &models.NormalizationFailure{Ticker: ticker, Detail: "no date column in provider table"}
	}
	closeCol := findColumn(header, "close")
	if closeCol < 0 {
		// Provider variants without a Close header: fall back to the
		// first column that parses as numeric across rows.
		closeCol = firstNumericColumn(rows, dateCol)
		if closeCol < 0 {
			return nil, &models.NormalizationFailure{Ticker: ticker, Detail: "no numeric price column in provider table"}
		}
	}

	seen := make(map[time.Time]bool, len(rows))
	out := make([]models.PricePoint, 0, len(rows))
	for _, row := range rows {
		if len(row) <= dateCol || len(row) <= closeCol {
			continue
		}
		date, ok := util.ParseDay(strings.TrimSpace(row[dateCol]))
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[closeCol]), 64)
		if err != nil {
			continue
		}
		if seen[date] {
			continue
		}
		seen[date] = true
		out = append(out, models.PricePoint{Date: date, Close: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// findColumn locates a header case-insensitively, tolerating
// provider-prefixed multi-level names like "NSEI.Close".
func findColumn(header []string, name string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == name || strings.HasSuffix(h, "."+name) {
			return i
		}
	}
	return -1
}

func firstNumericColumn(rows [][]string, skip int) int {
	if len(rows) == 0 {
		return -1
	}
	width := len(rows[0])
	for col := 0; col < width; col++ {
		if col == skip {
			continue
		}
		numeric := true
		for _, row := range rows {
			if len(row) <= col {
				numeric = false
				break
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64); err != nil {
				numeric = false
				break
			}
		}
		if numeric {
			return col
		}
	}
	return -1
}
