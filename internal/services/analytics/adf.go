package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ADFResult holds the augmented Dickey-Fuller test output. A strongly
// negative statistic (small p-value) rejects the unit root, i.e.
// supports stationarity, which is the expected regime for returns.
type ADFResult struct {
	Statistic float64
	PValue    float64
	Lags      int
}

// ADF runs the augmented Dickey-Fuller test with a constant and no
// trend:
//
//	dy_t = alpha + gamma*y_{t-1} + sum_i beta_i*dy_{t-i} + e_t
//
// The lag order follows the Schwert rule 12*(n/100)^(1/4), truncated
// so the regression keeps enough degrees of freedom. The p-value is
// interpolated from the MacKinnon critical-value table for the
// constant-only case.
func ADF(y []float64) (ADFResult, error) {
	n := len(y)
	if n < 15 {
		return ADFResult{}, fmt.Errorf("adf: need at least 15 observations, have %d", n)
	}

	lags := int(12 * math.Pow(float64(n)/100, 0.25))
	if max := (n - 1) / 3; lags > max {
		lags = max
	}

	dy := make([]float64, n-1)
	for i := 1; i < n; i++ {
		dy[i-1] = y[i] - y[i-1]
	}

	// Rows are t = lags+1 ... n-1 in y-index terms.
	rows := n - 1 - lags
	cols := 2 + lags // const, y_{t-1}, lagged differences
	if rows <= cols {
		return ADFResult{}, fmt.Errorf("adf: %d observations cannot support %d regressors", rows, cols)
	}

	X := mat.NewDense(rows, cols, nil)
	Y := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := lags + 1 + r // index into y for the dependent dy_t = y[t]-y[t-1]
		X.Set(r, 0, 1)
		X.Set(r, 1, y[t-1])
		for l := 1; l <= lags; l++ {
			X.Set(r, 1+l, dy[t-1-l])
		}
		Y.SetVec(r, dy[t-1])
	}

	beta, se, err := olsWithStdErr(X, Y)
	if err != nil {
		return ADFResult{}, fmt.Errorf("adf regression: %w", err)
	}
	stat := beta[1] / se[1]
	return ADFResult{Statistic: stat, PValue: adfPValue(stat), Lags: lags}, nil
}

// olsWithStdErr solves Y = X*beta by least squares and returns the
// coefficient vector with its standard errors.
func olsWithStdErr(X *mat.Dense, Y *mat.VecDense) (beta, se []float64, err error) {
	rows, cols := X.Dims()

	var qr mat.QR
	qr.Factorize(X)
	var b mat.Dense
	if err := qr.SolveTo(&b, false, Y); err != nil {
		return nil, nil, err
	}

	beta = make([]float64, cols)
	for i := range beta {
		beta[i] = b.At(i, 0)
	}

	var fitted mat.VecDense
	fitted.MulVec(X, b.ColView(0))
	rss := 0.0
	for i := 0; i < rows; i++ {
		r := Y.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	sigma2 := rss / float64(rows-cols)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, err
	}

	se = make([]float64, cols)
	for i := range se {
		se[i] = math.Sqrt(sigma2 * inv.At(i, i))
	}
	return beta, se, nil
}

// MacKinnon asymptotic quantiles of the tau distribution, constant
// case. Probability of observing a statistic at or below the value.
var adfQuantiles = []struct {
	p   float64
	tau float64
}{
	{0.001, -3.98},
	{0.01, -3.43},
	{0.025, -3.12},
	{0.05, -2.86},
	{0.10, -2.57},
	{0.25, -2.12},
	{0.50, -1.57},
	{0.75, -1.00},
	{0.90, -0.44},
	{0.95, -0.07},
	{0.975, 0.23},
	{0.99, 0.60},
	{0.999, 1.28},
}

func adfPValue(stat float64) float64 {
	qs := adfQuantiles
	if stat <= qs[0].tau {
		return qs[0].p
	}
	if stat >= qs[len(qs)-1].tau {
		return qs[len(qs)-1].p
	}
	for i := 1; i < len(qs); i++ {
		if stat <= qs[i].tau {
			lo, hi := qs[i-1], qs[i]
			frac := (stat - lo.tau) / (hi.tau - lo.tau)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return qs[len(qs)-1].p
}
