package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Whisper  WhisperConfig  `yaml:"whisper"`
	Summary  SummaryConfig  `yaml:"summary"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Watcher  WatcherConfig  `yaml:"watcher"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
}

// SummaryConfig maps the model names callers may select at upload time
// to the Gemini model id that backs each of them.
type SummaryConfig struct {
	Models map[string]string `yaml:"models"`
}

type PipelineConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

type WatcherConfig struct {
	Enabled  bool   `yaml:"enabled"`
	InputDir string `yaml:"input_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.Watcher.Enabled && c.Watcher.InputDir == "" {
		return fmt.Errorf("watcher.input_dir is required when the watcher is enabled")
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb must not be negative")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.UploadDir == "" {
		c.Server.UploadDir = "uploads"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 100
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 4
	}
	if c.Pipeline.QueueSize == 0 {
		c.Pipeline.QueueSize = 64
	}
	if len(c.Summary.Models) == 0 {
		c.Summary.Models = map[string]string{
			"bart":   "gemini-2.5-flash",
			"samsum": "gemini-2.5-flash-lite",
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// MaxUploadBytes converts the configured limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB * 1024 * 1024
}
