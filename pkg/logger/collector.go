package logger

import (
	"sync"
	"time"
)

// Entry is one collected diagnostic event.
type Entry struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Time    time.Time              `json:"time"`
}

// Collector accumulates warn/error events for the duration of a run so
// the orchestrator can surface them in the run's diagnostics output
// (skipped assets, degraded baselines, undefined normalizations).
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(level, message string, fields map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{
		Level:   level,
		Message: message,
		Fields:  fields,
		Time:    time.Now(),
	})
}

// Drain returns all collected entries and resets the collector.
func (c *Collector) Drain() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.entries
	c.entries = nil
	return out
}

// Len reports the number of collected entries.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
