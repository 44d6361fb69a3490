package jobs

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()

	err := s.Create(Record{
		ID:       "test-id",
		Status:   StatusUploading,
		Step:     1,
		Filename: "meeting.wav",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rec, err := s.Get("test-id")
	if err != nil {
		t.Fatalf("expected record, got error %v", err)
	}
	if rec.ID != "test-id" || rec.Status != StatusUploading || rec.Step != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	s := NewStore()
	if err := s.Create(Record{ID: "dup"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(Record{ID: "dup"}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestStore_UpdateAtomic(t *testing.T) {
	s := NewStore()
	if err := s.Create(Record{ID: "job", Status: StatusUploading, Step: 1}); err != nil {
		t.Fatal(err)
	}

	err := s.Update("job", func(rec *Record) {
		rec.Status = StatusTranscribing
		rec.Step = 2
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rec, _ := s.Get("job")
	if rec.Status != StatusTranscribing || rec.Step != 2 {
		t.Fatalf("unexpected record after update: %+v", rec)
	}
}

func TestStore_UpdateUnknown(t *testing.T) {
	s := NewStore()
	err := s.Update("nope", func(rec *Record) { rec.Step = 2 })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_StepNeverDecreases(t *testing.T) {
	s := NewStore()
	if err := s.Create(Record{ID: "job", Status: StatusSummarizing, Step: 3}); err != nil {
		t.Fatal(err)
	}

	if err := s.Update("job", func(rec *Record) { rec.Step = 1 }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rec, _ := s.Get("job")
	if rec.Step != 3 {
		t.Fatalf("step decreased: got %d, want 3", rec.Step)
	}
}

func TestStore_TerminalRecordsAreFrozen(t *testing.T) {
	tests := []struct {
		name   string
		status Status
	}{
		{"completed is terminal", StatusCompleted},
		{"error is terminal", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			if err := s.Create(Record{ID: "job", Status: tt.status, Step: 4}); err != nil {
				t.Fatal(err)
			}

			err := s.Update("job", func(rec *Record) { rec.Status = StatusUploading })
			if !errors.Is(err, ErrTerminal) {
				t.Fatalf("expected ErrTerminal, got %v", err)
			}

			rec, _ := s.Get("job")
			if rec.Status != tt.status {
				t.Fatalf("terminal record mutated: %+v", rec)
			}
		})
	}
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	if err := s.Create(Record{ID: "job", Status: StatusSummarizing, Step: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("job", func(rec *Record) {
		rec.Status = StatusCompleted
		rec.Step = 4
		rec.Results = &Results{Summary: "original"}
	}); err != nil {
		t.Fatal(err)
	}

	rec, _ := s.Get("job")
	rec.Results.Summary = "mutated by reader"
	rec.Status = StatusError

	again, _ := s.Get("job")
	if again.Results.Summary != "original" || again.Status != StatusCompleted {
		t.Fatalf("reader mutation leaked into store: %+v", again)
	}
}

func TestStore_ConcurrentCreateGetUpdate(t *testing.T) {
	s := NewStore()
	const numJobs = 200

	var wg sync.WaitGroup
	wg.Add(numJobs)
	for i := 0; i < numJobs; i++ {
		go func(i int) {
			defer wg.Done()
			err := s.Create(Record{
				ID:     fmt.Sprintf("job-%d", i),
				Status: StatusUploading,
				Step:   1,
			})
			if err != nil {
				t.Errorf("Create() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	const readers = 50
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("job-%d", (i*100+j)%numJobs)
				if err := s.Update(id, func(rec *Record) {
					rec.Status = StatusTranscribing
					rec.Step = 2
				}); err != nil {
					t.Errorf("Update() error = %v", err)
					return
				}
				if _, err := s.Get(id); err != nil {
					t.Errorf("expected job to exist: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if s.Count() != numJobs {
		t.Fatalf("expected %d jobs, got %d", numJobs, s.Count())
	}
}

func TestStore_ConcurrentReadersSeeConsistentRecord(t *testing.T) {
	s := NewStore()
	if err := s.Create(Record{ID: "job", Status: StatusUploading, Step: 1}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		transitions := []struct {
			status Status
			step   int
		}{
			{StatusTranscribing, 2},
			{StatusSummarizing, 3},
			{StatusCompleted, 4},
		}
		for _, tr := range transitions {
			_ = s.Update("job", func(rec *Record) {
				rec.Status = tr.status
				rec.Step = tr.step
				if tr.status == StatusCompleted {
					rec.Results = &Results{Transcript: "t", Summary: "s", Insights: "i"}
				}
			})
		}
	}()

	// Readers must never see a status/step pair from two different
	// transitions, and never results without completed status.
	expectedStep := map[Status]int{
		StatusUploading:    1,
		StatusTranscribing: 2,
		StatusSummarizing:  3,
		StatusCompleted:    4,
	}
	for i := 0; i < 1000; i++ {
		rec, err := s.Get("job")
		if err != nil {
			t.Fatal(err)
		}
		if want := expectedStep[rec.Status]; rec.Step != want {
			t.Fatalf("inconsistent snapshot: status=%s step=%d", rec.Status, rec.Step)
		}
		if (rec.Results != nil) != (rec.Status == StatusCompleted) {
			t.Fatalf("results visibility mismatch: status=%s results=%v", rec.Status, rec.Results)
		}
	}
	<-done
}
