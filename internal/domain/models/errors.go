package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means an asset has no (or effectively no)
	// usable price history. The orchestrator skips the asset and
	// continues with the rest.
	ErrDataUnavailable = errors.New("no usable price history")

	// ErrNoDataAvailable means zero assets survived the run, so the
	// aggregation step has nothing to combine.
	ErrNoDataAvailable = errors.New("no assets produced data")

	// ErrUndefinedNormalization means a feature series has zero
	// variance, so its z-score transform is undefined.
	ErrUndefinedNormalization = errors.New("zero-variance series: normalization undefined")
)

// NormalizationFailure reports that the price-source adapter could not
// reduce a provider table to a single closing-price column.
type NormalizationFailure struct {
	Ticker string
	Detail string
}

func (e *NormalizationFailure) Error() string {
	return fmt.Sprintf("normalize price table for %s: %s", e.Ticker, e.Detail)
}
