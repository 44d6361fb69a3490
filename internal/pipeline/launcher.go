package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/meetwrap/meetwrap/internal/jobs"
	"github.com/meetwrap/meetwrap/internal/logger"
)

// ErrQueueFull is returned when the submission queue has no free slot.
var ErrQueueFull = errors.New("submission queue full")

// ErrShutdown is returned when a submission arrives after Shutdown began.
var ErrShutdown = errors.New("launcher is shutting down")

// Task is one unit of pipeline work, handed from Submit to a worker.
type Task struct {
	JobID              string
	StoredPath         string
	TranscriptionModel string
	SummaryModel       string
}

// Upload describes an incoming asset. Save must write the asset to the
// destination path it is given; the launcher picks a destination that
// embeds the job id so concurrent uploads of identically named files
// never collide.
type Upload struct {
	Filename           string
	TranscriptionModel string
	SummaryModel       string
	Save               func(dst string) error
}

// Launcher accepts submissions and runs the pipeline on a bounded worker
// pool. The queue applies backpressure: once it is full, Submit rejects
// instead of spawning unbounded goroutines.
type Launcher struct {
	store     *jobs.Store
	runner    *Runner
	logger    logger.Logger
	uploadDir string

	workers int
	queue   chan Task

	mu       sync.Mutex
	pending  int
	closed   bool
	submitWG sync.WaitGroup

	wg sync.WaitGroup
}

// NewLauncher creates a Launcher with the given worker count and queue
// capacity. Start must be called before Submit.
func NewLauncher(store *jobs.Store, runner *Runner, log logger.Logger, uploadDir string, workers, queueSize int) *Launcher {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Launcher{
		store:     store,
		runner:    runner,
		logger:    log,
		uploadDir: uploadDir,
		workers:   workers,
		queue:     make(chan Task, queueSize),
	}
}

// Start launches the worker goroutines.
func (l *Launcher) Start(ctx context.Context) {
	for i := 0; i < l.workers; i++ {
		l.wg.Add(1)
		go l.worker(ctx, i)
	}
}

// Submit registers a new job and schedules the pipeline for it. It
// returns as soon as the asset is stored and the task is queued; the
// caller polls the store for progress.
func (l *Launcher) Submit(ctx context.Context, up Upload) (string, error) {
	// Reserve a queue slot before creating any state so a rejected
	// submission leaves no trace in the store. The slot also keeps
	// Shutdown from closing the queue while this submission is between
	// reservation and send.
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return "", ErrShutdown
	}
	if l.pending >= cap(l.queue) {
		l.mu.Unlock()
		return "", ErrQueueFull
	}
	l.pending++
	l.submitWG.Add(1)
	l.mu.Unlock()
	defer l.submitWG.Done()

	jobID := uuid.NewString()
	storedPath := filepath.Join(l.uploadDir, fmt.Sprintf("%s_%s", jobID, up.Filename))

	if err := up.Save(storedPath); err != nil {
		l.release()
		return "", fmt.Errorf("store asset: %w", err)
	}

	err := l.store.Create(jobs.Record{
		ID:         jobID,
		Status:     jobs.StatusUploading,
		Step:       1,
		Filename:   up.Filename,
		StoredPath: storedPath,
	})
	if err != nil {
		l.release()
		return "", fmt.Errorf("register job: %w", err)
	}

	// Cannot block: pending never exceeds the queue capacity.
	l.queue <- Task{
		JobID:              jobID,
		StoredPath:         storedPath,
		TranscriptionModel: up.TranscriptionModel,
		SummaryModel:       up.SummaryModel,
	}

	l.logger.Info(ctx, "Job %s submitted (%s)", jobID, up.Filename)
	return jobID, nil
}

// Shutdown stops accepting work and waits for in-flight jobs to reach a
// terminal state. In-flight Submit calls are allowed to finish before
// the queue closes, so their sends can never hit a closed channel.
func (l *Launcher) Shutdown() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.submitWG.Wait()
	close(l.queue)
	l.wg.Wait()
}

func (l *Launcher) release() {
	l.mu.Lock()
	l.pending--
	l.mu.Unlock()
}

func (l *Launcher) worker(ctx context.Context, id int) {
	defer l.wg.Done()
	l.logger.Debug(ctx, "Pipeline worker %d started", id)

	for task := range l.queue {
		l.release()
		l.runner.Run(ctx, task)
	}
}
