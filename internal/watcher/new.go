package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/meetwrap/meetwrap/internal/logger"
	"github.com/meetwrap/meetwrap/internal/pipeline"
)

// New creates a Watcher over inputDir that submits new audio files
// through the launcher, the same admission path HTTP uploads take.
func New(inputDir string, launcher *pipeline.Launcher, log logger.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir: inputDir,
		launcher: launcher,
		logger:   log,
		watcher:  fsw,
	}, nil
}
