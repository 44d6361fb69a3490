package capability

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/meetwrap/meetwrap/internal/logger"
)

// scriptedExecutor mimics whisper.cpp: it writes the transcript to the
// path given after --output-file, plus the .txt suffix the tool appends.
type scriptedExecutor struct {
	transcript string
	err        error
	gotName    string
	gotArgs    []string
}

func (s *scriptedExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	s.gotName = name
	s.gotArgs = args
	if s.err != nil {
		return "", s.err
	}
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			return "", os.WriteFile(args[i+1]+".txt", []byte(s.transcript), 0644)
		}
	}
	return "", errors.New("no --output-file argument")
}

func TestWhisperTranscribe(t *testing.T) {
	dir := t.TempDir()
	audioPath := dir + "/job-1_meeting.wav"
	if err := os.WriteFile(audioPath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &scriptedExecutor{transcript: "  hello from the meeting  \n"}
	tr := NewWhisperTranscriber(WhisperConfig{
		BinaryPath: "/opt/whisper/main",
		ModelPath:  "/opt/whisper/ggml-base.bin",
		Language:   "en",
		Threads:    4,
	}, exec, logger.New("error"))

	got, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "hello from the meeting" {
		t.Errorf("transcript = %q", got)
	}
	if exec.gotName != "/opt/whisper/main" {
		t.Errorf("executed %q", exec.gotName)
	}
	joined := strings.Join(exec.gotArgs, " ")
	for _, want := range []string{"-m /opt/whisper/ggml-base.bin", "-f " + audioPath, "-otxt", "-l en", "-t 4"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}

	// The intermediate .txt output is cleaned up.
	if _, err := os.Stat(strings.TrimSuffix(audioPath, ".wav") + ".txt"); !os.IsNotExist(err) {
		t.Error("whisper output file was not removed")
	}
}

func TestWhisperTranscribeCommandFailure(t *testing.T) {
	exec := &scriptedExecutor{err: errors.New("exit status 1")}
	tr := NewWhisperTranscriber(WhisperConfig{BinaryPath: "w", ModelPath: "m"}, exec, logger.New("error"))

	if _, err := tr.Transcribe(context.Background(), "audio.wav"); err == nil {
		t.Fatal("expected error from failing command")
	}
}

func TestWhisperTranscribeEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	audioPath := dir + "/a.wav"

	exec := &scriptedExecutor{transcript: "   \n"}
	tr := NewWhisperTranscriber(WhisperConfig{BinaryPath: "w", ModelPath: "m"}, exec, logger.New("error"))

	if _, err := tr.Transcribe(context.Background(), audioPath); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestWhisperName(t *testing.T) {
	tr := NewWhisperTranscriber(WhisperConfig{}, &scriptedExecutor{}, logger.New("error"))
	if tr.Name() != "whisper" {
		t.Errorf("Name() = %q", tr.Name())
	}
}
