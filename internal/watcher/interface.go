package watcher

import "context"

// Watcher monitors a drop folder and submits new audio files into the
// processing pipeline.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}
