package capability

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/meetwrap/meetwrap/internal/logger"
	"github.com/meetwrap/meetwrap/pkg/executor"
)

// WhisperConfig points at a local whisper.cpp installation.
type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Threads    int
}

// Available reports whether both the binary and the model file exist on
// disk. When they don't, the transcriber stays unregistered and jobs fall
// back to the deterministic transcript.
func (c WhisperConfig) Available() bool {
	if c.BinaryPath == "" || c.ModelPath == "" {
		return false
	}
	if _, err := os.Stat(c.BinaryPath); err != nil {
		return false
	}
	if _, err := os.Stat(c.ModelPath); err != nil {
		return false
	}
	return true
}

type whisperTranscriber struct {
	cfg      WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperTranscriber creates a Transcriber backed by the whisper.cpp
// command line tool.
func NewWhisperTranscriber(cfg WhisperConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &whisperTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

func (w *whisperTranscriber) Name() string {
	return "whisper"
}

// Transcribe runs whisper.cpp over the audio file and returns the plain
// text output. The tool writes <prefix>.txt next to the audio asset.
func (w *whisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	w.logger.Info(ctx, "Transcribing with %d threads: %s", w.cfg.Threads, audioPath)

	// -m: model path
	// -f: input audio file
	// -otxt: plain text output
	// -l: force language (prevents hallucination)
	// -t: thread count
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"--output-file", outputPrefix,
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := outputPrefix + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	defer os.Remove(txtPath)

	transcript := strings.TrimSpace(string(data))
	if transcript == "" {
		return "", fmt.Errorf("whisper produced empty transcript for %s", audioPath)
	}

	w.logger.Info(ctx, "Transcription finished: %s (%d chars)", audioPath, len(transcript))
	return transcript, nil
}
