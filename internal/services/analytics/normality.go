package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// JarqueBera tests the sample against a Gaussian using the moment
// statistic JB = n/6 * (S^2 + K^2/4) with S the sample skewness and K
// the excess kurtosis, chi-squared with 2 degrees of freedom under the
// null. Financial returns typically reject normality hard, which is
// itself a useful diagnostic.
func JarqueBera(xs []float64) (stat, pValue float64, err error) {
	n := len(xs)
	if n < 8 {
		return 0, 0, fmt.Errorf("jarque-bera: need at least 8 observations, have %d", n)
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	var m2, m3, m4 float64
	for _, x := range xs {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= float64(n)
	m3 /= float64(n)
	m4 /= float64(n)

	if m2 == 0 {
		return 0, 0, fmt.Errorf("jarque-bera: zero variance")
	}

	s := m3 / math.Pow(m2, 1.5)
	k := m4/(m2*m2) - 3

	stat = float64(n) / 6 * (s*s + k*k/4)
	chi2 := distuv.ChiSquared{K: 2}
	pValue = chi2.Survival(stat)
	return stat, pValue, nil
}
