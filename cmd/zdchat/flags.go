package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/zdco/zdchat/config"
)

// options holds command-line values. Empty strings leave the config
// untouched.
type options struct {
	configPath   string
	baseURL      string
	storage      string
	storagePath  string
	titles       string
	voiceCommand string
	logLevel     string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("zdchat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.configPath, "config", config.DefaultPath(), "Path to config file")
	fs.StringVar(&o.baseURL, "base-url", "", "Backend base URL")
	fs.StringVar(&o.storage, "storage", "", "Storage backend: file, sqlite")
	fs.StringVar(&o.storagePath, "storage-path", "", "Storage directory or database file")
	fs.StringVar(&o.titles, "titles", "", "Title source: backend, gemini, none")
	fs.StringVar(&o.voiceCommand, "voice-command", "", "Recorder command containing {file}")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("flags: %w", err)
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("flags: unexpected argument %q", fs.Arg(0))
	}
	return o, nil
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(o options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.storage != "" {
		cfg.Storage.Backend = o.storage
	}
	if o.storagePath != "" {
		cfg.Storage.Path = o.storagePath
	}
	if o.titles != "" {
		cfg.TitleSource = o.titles
	}
	if o.voiceCommand != "" {
		cfg.Voice.Command = o.voiceCommand
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
