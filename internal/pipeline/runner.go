package pipeline

import (
	"context"
	"strings"

	"github.com/meetwrap/meetwrap/internal/capability"
	"github.com/meetwrap/meetwrap/internal/jobs"
	"github.com/meetwrap/meetwrap/internal/logger"
)

// Runner drives one job through transcription, summarization and insight
// extraction, committing each stage transition to the store before the
// next stage starts. Stage failures become data on the record; Run never
// panics and never returns an error to its caller.
type Runner struct {
	store    *jobs.Store
	registry *capability.Registry
	logger   logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(store *jobs.Store, registry *capability.Registry, log logger.Logger) *Runner {
	return &Runner{
		store:    store,
		registry: registry,
		logger:   log,
	}
}

// Run executes the full pipeline for the job identified by task.
func (r *Runner) Run(ctx context.Context, task Task) {
	r.transition(ctx, task.JobID, jobs.StatusTranscribing, 2)

	transcript, err := r.transcribe(ctx, task)
	if err != nil {
		r.fail(ctx, task.JobID, err)
		return
	}

	r.transition(ctx, task.JobID, jobs.StatusSummarizing, 3)

	summary, err := r.summarize(ctx, task, transcript)
	if err != nil {
		r.fail(ctx, task.JobID, err)
		return
	}

	insights := ExtractInsights(summary)

	// Results and the completed status land in one atomic update so a
	// poller can never see one without the other.
	err = r.store.Update(task.JobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusCompleted
		rec.Step = 4
		rec.Results = &jobs.Results{
			Transcript: transcript,
			Summary:    summary,
			Insights:   insights,
			ModelsUsed: jobs.ModelsUsed{
				Transcription: task.TranscriptionModel,
				Summary:       task.SummaryModel,
			},
		}
	})
	if err != nil {
		r.logger.Error(ctx, "Failed to complete job %s: %v", task.JobID, err)
		return
	}

	r.logger.Info(ctx, "Processing completed for job %s", task.JobID)
}

func (r *Runner) transcribe(ctx context.Context, task Task) (string, error) {
	transcriber, ok := r.registry.Transcriber(task.TranscriptionModel)
	if !ok {
		r.logger.Warn(ctx, "Transcription model %q not available, using fallback transcript (job %s)",
			task.TranscriptionModel, task.JobID)
		return capability.FallbackTranscript, nil
	}
	return transcriber.Transcribe(ctx, task.StoredPath)
}

// summarize chunks the transcript and merges per-chunk summaries in
// chunk order. Order preservation is a hard requirement: meeting
// transcripts are chronological and the merged summary must be too.
func (r *Runner) summarize(ctx context.Context, task Task, transcript string) (string, error) {
	summarizer, ok := r.registry.Summarizer(task.SummaryModel)
	if !ok {
		r.logger.Warn(ctx, "Summary model %q not available, using fallback summary (job %s)",
			task.SummaryModel, task.JobID)
		return capability.FallbackSummary, nil
	}

	chunks := MeaningfulChunks(Chunk(transcript))
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		r.logger.Debug(ctx, "Summarizing chunk %d/%d for job %s", i+1, len(chunks), task.JobID)
		summary, err := summarizer.Summarize(ctx, chunk)
		if err != nil {
			return "", err
		}
		summaries = append(summaries, summary)
	}
	return strings.Join(summaries, " "), nil
}

func (r *Runner) transition(ctx context.Context, jobID string, status jobs.Status, step int) {
	err := r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = status
		rec.Step = step
	})
	if err != nil {
		r.logger.Error(ctx, "Failed to move job %s to %s: %v", jobID, status, err)
	}
}

// fail records the error on the job. Step is left untouched so it
// freezes at the stage that failed.
func (r *Runner) fail(ctx context.Context, jobID string, cause error) {
	r.logger.Error(ctx, "Error processing job %s: %v", jobID, cause)
	err := r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusError
		rec.Error = cause.Error()
	})
	if err != nil {
		r.logger.Error(ctx, "Failed to record error for job %s: %v", jobID, err)
	}
}
