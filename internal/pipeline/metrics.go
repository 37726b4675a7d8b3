package pipeline

import (
	"math/rand"
	"sync"
	"time"
)

// Metrics are the placeholder numbers attached to a completed step.
type Metrics struct {
	Duration         time.Duration
	RecordsProcessed int
	IssuesFound      int
}

// MetricsSource produces metrics for a step that just completed.
type MetricsSource interface {
	Next(step Step) Metrics
}

// FakeMetrics draws fixture values from bounded ranges. They are not measurements.
type FakeMetrics struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFakeMetrics seeds the generator; seed 0 uses the clock.
func NewFakeMetrics(seed int64) *FakeMetrics {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FakeMetrics{rng: rand.New(rand.NewSource(seed))}
}

func (f *FakeMetrics) Next(Step) Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Metrics{
		Duration:         time.Duration(f.rng.Intn(5000)+1000) * time.Millisecond,
		RecordsProcessed: f.rng.Intn(10000) + 1000,
		IssuesFound:      f.rng.Intn(50) + 5,
	}
}

// FixedMetrics returns the same values for every step.
type FixedMetrics Metrics

func (m FixedMetrics) Next(Step) Metrics { return Metrics(m) }
