// Command zdchat is a terminal chat client for the ZDCO assistant backend.
//
// Usage:
//
//	zdchat [flags]
//
// Flags:
//
//	-config string        Path to config file (default: ~/.zdchat/config.yaml)
//	-base-url string      Backend base URL (overrides config)
//	-storage string       Storage backend: file, sqlite (overrides config)
//	-storage-path string  Storage directory or database file (overrides config)
//	-titles string        Title source: backend, gemini, none (overrides config)
//	-voice-command string Recorder command containing {file} (overrides config)
//	-log-level string     Log level: debug, info, warn, error (overrides config)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/zdco/zdchat"
	"github.com/zdco/zdchat/api"
	bt "github.com/zdco/zdchat/bubbletea"
	zdjson "github.com/zdco/zdchat/json"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zdchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	logger.Info("starting", zap.String("base_url", cfg.BaseURL),
		zap.String("storage", cfg.Storage.Backend), zap.String("titles", cfg.TitleSource))

	kv, closeKV, err := openKV(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeKV()

	backend := api.New(api.WithBaseURL(cfg.BaseURL))
	titler, err := newTitler(ctx, cfg, backend)
	if err != nil {
		return err
	}

	storeOpts := []zdchat.StoreOption{
		zdchat.WithStoreLogger(logger.Named("store")),
		zdchat.WithStorageKey(cfg.Storage.Key),
	}
	if titler != nil {
		storeOpts = append(storeOpts, zdchat.WithTitler(titler))
	}
	store := zdchat.NewStore(kv, zdjson.Codec{}, storeOpts...)
	store.Initialize()
	defer store.Close()

	conv := zdchat.NewConversation(store, cfg.Classifier(), backend, cfg.Routes(),
		zdchat.WithConversationLogger(logger.Named("conversation")))

	rec, err := newRecognizer(ctx, cfg, logger.Named("voice"))
	if err != nil {
		return err
	}
	voice := zdchat.NewVoice(rec, conv)

	m := bt.New(store, conv, voice, zdchat.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	logger.Info("exiting")
	return nil
}
