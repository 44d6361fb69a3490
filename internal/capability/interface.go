package capability

import "context"

// Transcriber converts a stored audio asset into raw transcript text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Summarizer condenses one transcript chunk into summary text.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, chunk string) (string, error)
}
