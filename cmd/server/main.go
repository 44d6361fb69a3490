package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meetwrap/meetwrap/internal/capability"
	"github.com/meetwrap/meetwrap/internal/config"
	"github.com/meetwrap/meetwrap/internal/jobs"
	"github.com/meetwrap/meetwrap/internal/logger"
	"github.com/meetwrap/meetwrap/internal/pipeline"
	"github.com/meetwrap/meetwrap/internal/server"
	"github.com/meetwrap/meetwrap/internal/watcher"
	"github.com/meetwrap/meetwrap/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	ctx := context.Background()

	// .env is optional; the Gemini key may come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "Starting MeetWrap backend server...")

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	registry := buildRegistry(ctx, cfg, log)
	store := jobs.NewStore()
	runner := pipeline.NewRunner(store, registry, log)
	launcher := pipeline.NewLauncher(store, runner, log, cfg.Server.UploadDir,
		cfg.Pipeline.Workers, cfg.Pipeline.QueueSize)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	launcher.Start(runCtx)

	if cfg.Watcher.Enabled {
		w, err := watcher.New(cfg.Watcher.InputDir, launcher, log)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()
		go func() {
			if err := w.Start(runCtx); err != nil && err != context.Canceled {
				log.Error(runCtx, "Watcher error: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(store, launcher, registry, log, cfg.MaxUploadBytes()).Handler(),
	}

	go func() {
		log.Info(ctx, "Server started on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "listen: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Server shutdown failed: %v", err)
	}

	// Let queued jobs drain before the process exits.
	cancel()
	launcher.Shutdown()

	log.Info(ctx, "Server exited properly")
}

// buildRegistry registers every capability the configuration makes
// possible. Missing binaries or keys are reported but not fatal: jobs
// selecting an unregistered model get deterministic fallback output.
func buildRegistry(ctx context.Context, cfg *config.Config, log logger.Logger) *capability.Registry {
	registry := capability.NewRegistry()

	whisperCfg := capability.WhisperConfig{
		BinaryPath: cfg.Whisper.BinaryPath,
		ModelPath:  cfg.Whisper.ModelPath,
		Language:   cfg.Whisper.Language,
		Threads:    cfg.Whisper.Threads,
	}
	if whisperCfg.Available() {
		registry.RegisterTranscriber(capability.NewWhisperTranscriber(whisperCfg, executor.New(), log))
		log.Info(ctx, "Whisper model loaded: %s", cfg.Whisper.ModelPath)
	} else {
		log.Warn(ctx, "Whisper not configured, transcription will use the demo fallback")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey != "" {
		for alias, modelID := range cfg.Summary.Models {
			registry.RegisterSummarizer(capability.NewGeminiSummarizer(alias, modelID, apiKey, log))
			log.Info(ctx, "Summary model loaded: %s (%s)", alias, modelID)
		}
	} else {
		log.Warn(ctx, "GEMINI_API_KEY not set, summarization will use the demo fallback")
	}

	log.Info(ctx, "%d models loaded", registry.Loaded())
	return registry
}

func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Server.UploadDir}
	if cfg.Watcher.Enabled {
		dirs = append(dirs, cfg.Watcher.InputDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
