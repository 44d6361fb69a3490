package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/meetwrap/meetwrap/internal/logger"
	"github.com/meetwrap/meetwrap/internal/pipeline"
)

// settleDelay gives the writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".wma"}

type implWatcher struct {
	inputDir string
	launcher *pipeline.Launcher
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	wg       sync.WaitGroup
}

// Start blocks, monitoring the drop folder until ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Drop folder watcher started. Monitoring: %s", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for pending submissions...")
			w.wg.Wait()
			w.logger.Info(ctx, "Drop folder watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			// Settle and submit off the event loop so one file's
			// settle delay never stalls handling of the next event.
			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				select {
				case <-time.After(settleDelay):
				case <-ctx.Done():
					return
				}
				w.submit(ctx, path)
			}(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying fsnotify watcher.
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// submit hands the file to the launcher. The save step moves the file
// out of the drop folder into the upload directory so it is not picked
// up twice.
func (w *implWatcher) submit(ctx context.Context, path string) {
	jobID, err := w.launcher.Submit(ctx, pipeline.Upload{
		Filename:           filepath.Base(path),
		TranscriptionModel: "whisper",
		SummaryModel:       "bart",
		Save: func(dst string) error {
			return moveFile(path, dst)
		},
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrShutdown) {
			w.logger.Warn(ctx, "Cannot accept %s right now, leaving it in the drop folder: %v", path, err)
			return
		}
		w.logger.Error(ctx, "Failed to submit %s: %v", path, err)
		return
	}

	w.logger.Info(ctx, "Submitted %s as job %s", path, jobID)
}

// moveFile renames when possible and falls back to copy-and-delete for
// cross-device drop folders.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range audioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
