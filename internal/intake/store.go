package intake

import (
	"fmt"
	"slices"
	"sync"
)

// Store is the append-only, ordered list of accepted files for the session.
type Store struct {
	mu    sync.RWMutex
	files []UploadedFile
}

func NewStore() *Store { return &Store{} }

func (s *Store) Append(f UploadedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, f)
}

// Accept appends successful results in slice order and returns one
// notification per result.
func (s *Store) Accept(results ...Result) []Notification {
	notes := make([]Notification, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			s.Append(r.File)
		}
		notes = append(notes, Notify(r))
	}
	return notes
}

// List returns a copy in append order.
func (s *Store) List() []UploadedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.files)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Notification is a transient message about one file.
type Notification struct {
	Text  string
	Error bool
}

// Notify builds the success or failure message for r.
func Notify(r Result) Notification {
	if r.Err != nil {
		return Notification{Text: fmt.Sprintf("Error processing %s", r.Name()), Error: true}
	}
	return Notification{Text: fmt.Sprintf("%s uploaded and analyzed", r.Name())}
}
