package jobs

import "time"

// Status tracks each pipeline stage for a submitted job.
type Status string

const (
	StatusUploading    Status = "uploading"
	StatusTranscribing Status = "transcribing"
	StatusSummarizing  Status = "summarizing"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// Terminal reports whether no further transitions may occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// ModelsUsed records which capability handled each stage.
type ModelsUsed struct {
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
}

// Results holds the pipeline output, populated once when a job completes.
type Results struct {
	Transcript string     `json:"transcript"`
	Summary    string     `json:"summary"`
	Insights   string     `json:"insights"`
	ModelsUsed ModelsUsed `json:"models_used"`
}

// Record stores one job's identity, lifecycle status and results.
// Step runs 1-4 and never decreases; it freezes at its last value
// when the job enters the error state.
type Record struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Step       int       `json:"step"`
	Filename   string    `json:"filename"`
	StoredPath string    `json:"file_path"`
	Error      string    `json:"error,omitempty"`
	Results    *Results  `json:"results,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
