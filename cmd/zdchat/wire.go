package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zdco/zdchat"
	"github.com/zdco/zdchat/config"
	"github.com/zdco/zdchat/exec"
	"github.com/zdco/zdchat/fs"
	"github.com/zdco/zdchat/gemini"
	"github.com/zdco/zdchat/sqlite"
	"go.uber.org/zap"
)

// newLogger builds a JSON file logger. Stdout and stderr belong to the TUI,
// so every output path is the log file.
func newLogger(c config.LogConfig) (*zap.Logger, error) {
	if c.Path == "" {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{c.Path}
	zc.ErrorOutputPaths = []string{c.Path}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// openKV opens the configured storage backend. The returned func releases it.
func openKV(ctx context.Context, c config.StorageConfig) (zdchat.KV, func(), error) {
	switch c.Backend {
	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("storage directory: %w", err)
		}
		db, err := sqlite.Open(ctx, c.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.StorageFile:
		return fs.New(c.Path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", c.Backend)
	}
}

// newTitler selects the title generator. A nil Titler keeps placeholder
// titles.
func newTitler(ctx context.Context, cfg *config.Config, backend zdchat.Titler) (zdchat.Titler, error) {
	switch cfg.TitleSource {
	case config.TitleFromBackend:
		return backend, nil
	case config.TitleFromGemini:
		key := cfg.GeminiAPIKey()
		if key == "" {
			return nil, fmt.Errorf("%s not set (required for gemini titles)", cfg.Gemini.APIKeyEnv)
		}
		client, err := gemini.New(ctx, key, gemini.WithModel(cfg.Gemini.Model))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.TitleDisabled:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown title source %q", cfg.TitleSource)
	}
}

// newRecognizer builds the speech recognizer. Voice input needs both a
// recorder command and a Gemini key for transcription; without either it
// is reported as unsupported.
func newRecognizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (zdchat.Recognizer, error) {
	if cfg.Voice.Command == "" {
		return nil, nil
	}
	key := cfg.GeminiAPIKey()
	if key == "" {
		logger.Warn("voice command set without a transcription key", zap.String("env", cfg.Gemini.APIKeyEnv))
		return nil, nil
	}
	client, err := gemini.New(ctx, key, gemini.WithModel(cfg.Gemini.Model))
	if err != nil {
		return nil, err
	}
	return &exec.Recognizer{
		Command:     cfg.Voice.Command,
		MimeType:    cfg.Voice.MimeType,
		Timeout:     cfg.VoiceTimeout(),
		Transcriber: client,
		Logger:      logger,
	}, nil
}
