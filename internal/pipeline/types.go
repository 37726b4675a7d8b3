// Package pipeline simulates a five stage ETL run. Steps advance one at a
// time after a fixed delay and pick up fake metrics on completion; no data is
// extracted, validated, cleaned, transformed or loaded.
package pipeline

import "time"

// Status is the lifecycle state of a step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Step is one named stage of the simulated pipeline.
type Step struct {
	ID          string
	Name        string
	Description string
	Status      Status

	// set on completion only
	Duration         *time.Duration
	RecordsProcessed *int
	IssuesFound      *int
}

// DefaultSteps returns the fixed extract → load sequence.
func DefaultSteps() []Step {
	return []Step{
		{ID: "extract", Name: "Data Extraction", Description: "Reading from multiple data sources", Status: StatusPending},
		{ID: "validate", Name: "Data Validation", Description: "Identifying quality issues and inconsistencies", Status: StatusPending},
		{ID: "clean", Name: "Data Cleaning", Description: "Fixing inconsistencies and standardizing formats", Status: StatusPending},
		{ID: "transform", Name: "Data Transformation", Description: "Normalizing and structuring data", Status: StatusPending},
		{ID: "load", Name: "Data Loading", Description: "Loading into SQLite database", Status: StatusPending},
	}
}

// Event records a single status transition.
type Event struct {
	RunID    string
	Index    int
	StepID   string
	From     Status
	To       Status
	Progress float64
}

// Snapshot is a point-in-time copy of runner state.
type Snapshot struct {
	RunID    string
	Steps    []Step
	Progress float64
	Running  bool
}

// Finished reports whether every step completed.
func (s Snapshot) Finished() bool {
	if len(s.Steps) == 0 || s.Running {
		return false
	}
	for _, st := range s.Steps {
		if st.Status != StatusCompleted {
			return false
		}
	}
	return true
}
