package metrics

// Nop is a no-op recorder used when metrics are disabled.
type Nop struct{}

func (Nop) RecordAssetProcessed(string)        {}
func (Nop) RecordAssetSkipped(string, string)  {}
func (Nop) RecordFetchLatency(string, float64) {}
func (Nop) RecordSeriesLength(string, int)     {}
func (Nop) RecordAlert(string, string)         {}
