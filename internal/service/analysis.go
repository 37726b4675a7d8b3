package service

import (
	"context"
	"sync"
	"time"
)

// AnalysisDelay is how long the quality analysis pretends to run.
const AnalysisDelay = 2 * time.Second

// AnalysisDoneMessage is shown when an analysis finishes.
const AnalysisDoneMessage = "Data quality analysis completed"

// AnalysisService guards the timed "full analysis" action so only one runs at a time.
// No data is inspected.
type AnalysisService struct {
	mu      sync.Mutex
	running bool
}

// Begin marks an analysis as running. It returns false if one already is.
func (s *AnalysisService) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

// Finish clears the running flag and returns the completion message.
func (s *AnalysisService) Finish() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return AnalysisDoneMessage
}

func (s *AnalysisService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run performs a blocking analysis for headless callers.
func (s *AnalysisService) Run(ctx context.Context, delay time.Duration) (string, error) {
	if !s.Begin() {
		return "", ErrAnalysisRunning
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return "", ctx.Err()
	case <-t.C:
		return s.Finish(), nil
	}
}
