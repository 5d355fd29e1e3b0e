package features

import (
	"math"

	"BreakScan/internal/domain/models"
)

// LogReturns computes daily log returns r_t = ln(C_t / C_{t-1}) from a
// date-ordered price series. The first date has no prior close and is
// dropped. A transition involving a non-positive or NaN close is
// undefined and dropped too, never imputed. Returns nil when fewer
// than two prices are available.
func LogReturns(prices []models.PricePoint) models.ReturnSeries {
	if len(prices) < 2 {
		return nil
	}
	out := make(models.ReturnSeries, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		cur := prices[i].Close
		if prev <= 0 || cur <= 0 || math.IsNaN(prev) || math.IsNaN(cur) {
			continue
		}
		out = append(out, models.ReturnPoint{Date: prices[i].Date, Value: math.Log(cur / prev)})
	}
	return out
}

// ExtractBaseline selects all returns whose date falls inside the
// baseline calendar year and discards their dates. The extractor
// always returns whatever it found; deciding whether the sample is
// large enough to be statistically usable is the caller's job.
func ExtractBaseline(rs models.ReturnSeries, year int) models.Baseline {
	b := models.Baseline{Year: year}
	for _, p := range rs {
		if p.Date.Year() == year {
			b.Values = append(b.Values, p.Value)
		}
	}
	return b
}
