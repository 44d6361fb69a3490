package jobs

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a job id is not registered in the store.
var ErrNotFound = errors.New("job not found")

// ErrTerminal is returned when an update targets a completed or errored job.
var ErrTerminal = errors.New("job already in terminal state")

// ErrExists is returned when creating a job whose id is already registered.
var ErrExists = errors.New("job id already exists")

// Store is the single source of truth for job state. One pipeline
// goroutine mutates a given record while any number of status queries
// read it, so every mutation goes through Update's critical section and
// Get hands out copies, never live pointers into the map.
//
// Records are kept for the process lifetime; there is no pruning.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
	}
}

// Create registers a new record. The stored copy is detached from the
// caller's value.
func (s *Store) Create(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return ErrExists
	}

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = &rec
	return nil
}

// Get returns a snapshot of the record. The snapshot is a deep copy, so
// readers never observe a mutation in progress.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return Record{}, ErrNotFound
	}
	return snapshot(rec), nil
}

// Update applies mutate to the record under the write lock, making the
// whole read-modify-write atomic with respect to Get. It enforces two
// guards regardless of what the mutator does: terminal records are never
// modified, and Step never decreases.
func (s *Store) Update(id string, mutate func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[id]
	if !exists {
		return ErrNotFound
	}
	if rec.Status.Terminal() {
		return ErrTerminal
	}

	prevStep := rec.Step
	mutate(rec)
	if rec.Step < prevStep {
		rec.Step = prevStep
	}
	rec.UpdatedAt = time.Now()
	return nil
}

// Count returns the number of registered jobs, terminal ones included.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func snapshot(rec *Record) Record {
	out := *rec
	if rec.Results != nil {
		results := *rec.Results
		out.Results = &results
	}
	return out
}
