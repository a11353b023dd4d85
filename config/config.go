// Package config loads zdchat settings from YAML.
//
// A missing config file is not an error: the defaults reproduce the stock
// setup of a local backend on port 8000 with the order and afaqy modules.
// Extra modules can be declared inline or in separate keyword files found
// through a doublestar glob.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zdco/zdchat"
	"gopkg.in/yaml.v3"
)

// Config holds all zdchat configuration.
type Config struct {
	BaseURL string `yaml:"base_url"`

	Storage StorageConfig `yaml:"storage"`

	// Classification
	Fallback    string         `yaml:"fallback"`
	Modules     []ModuleConfig `yaml:"modules"`
	ModuleFiles string         `yaml:"module_files"` // glob, relative to the config file

	TitleSource string `yaml:"title_source"` // backend, gemini, none

	Voice  VoiceConfig  `yaml:"voice"`
	Gemini GeminiConfig `yaml:"gemini"`
	Log    LogConfig    `yaml:"log"`
}

// StorageConfig selects the KV backing the session store.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite
	Path    string `yaml:"path"`    // directory for file, database file for sqlite
	Key     string `yaml:"key"`
}

// ModuleConfig declares one classification module.
type ModuleConfig struct {
	Tag      string   `yaml:"tag"`
	Endpoint string   `yaml:"endpoint"`
	Keywords []string `yaml:"keywords"`
}

// VoiceConfig configures the external recorder. An empty Command disables
// voice input.
type VoiceConfig struct {
	Command  string `yaml:"command"`
	MimeType string `yaml:"mime_type"`
	Timeout  string `yaml:"timeout"`
}

// GeminiConfig configures the Gemini client used for transcription and,
// optionally, titles.
type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// Title sources.
const (
	TitleFromBackend = "backend"
	TitleFromGemini  = "gemini"
	TitleDisabled    = "none"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Dir returns the per-user zdchat directory, ~/.zdchat.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zdchat"
	}
	return filepath.Join(home, ".zdchat")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the default configuration.
func Default() *Config {
	dir := Dir()
	cfg := &Config{
		BaseURL: "http://localhost:8000",
		Storage: StorageConfig{
			Backend: StorageFile,
			Path:    filepath.Join(dir, "sessions"),
			Key:     zdchat.DefaultStorageKey,
		},
		Fallback:    string(zdchat.ModuleAfaqy),
		TitleSource: TitleFromBackend,
		Voice: VoiceConfig{
			MimeType: "audio/wav",
			Timeout:  "30s",
		},
		Gemini: GeminiConfig{
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "zdchat.log"),
			Level: "info",
		},
	}
	for _, m := range zdchat.DefaultModules() {
		cfg.Modules = append(cfg.Modules, ModuleConfig{
			Tag:      string(m.Tag),
			Endpoint: m.Endpoint,
			Keywords: m.Keywords,
		})
	}
	return cfg
}

// Load reads configuration from a YAML file on top of the defaults, then
// merges module files and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if cfg.ModuleFiles != "" {
		pattern := cfg.ModuleFiles
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(filepath.Dir(path), pattern)
		}
		if err := cfg.loadModuleFiles(pattern); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadModuleFiles merges every module file matching pattern. Files are
// visited in lexical order; a module whose tag is already declared replaces
// the earlier definition in place.
func (c *Config) loadModuleFiles(pattern string) error {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return fmt.Errorf("config: invalid module_files pattern: %s", pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("config: module_files: %w", err)
	}
	slices.Sort(matches)
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: module file: %w", err)
		}
		var m ModuleConfig
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		if m.Tag == "" {
			m.Tag = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		c.mergeModule(m)
	}
	return nil
}

func (c *Config) mergeModule(m ModuleConfig) {
	for i := range c.Modules {
		if c.Modules[i].Tag == m.Tag {
			c.Modules[i] = m
			return
		}
	}
	c.Modules = append(c.Modules, m)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ZDCHAT_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	if path := os.Getenv("ZDCHAT_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	}
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	switch c.Storage.Backend {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("config: unknown storage backend: %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return errors.New("config: storage.path is required")
	}
	switch c.TitleSource {
	case TitleFromBackend, TitleFromGemini, TitleDisabled:
	default:
		return fmt.Errorf("config: unknown title_source: %q", c.TitleSource)
	}
	if c.Fallback == "" {
		return errors.New("config: fallback is required")
	}
	for i, m := range c.Modules {
		if m.Tag == "" {
			return fmt.Errorf("config: modules[%d]: tag is required", i)
		}
	}
	if c.Voice.Timeout != "" {
		if _, err := time.ParseDuration(c.Voice.Timeout); err != nil {
			return fmt.Errorf("config: voice.timeout: %w", err)
		}
	}
	return nil
}

// DomainModules converts the module declarations.
func (c *Config) DomainModules() []zdchat.Module {
	mods := make([]zdchat.Module, len(c.Modules))
	for i, m := range c.Modules {
		mods[i] = zdchat.Module{
			Tag:      zdchat.ModuleTag(m.Tag),
			Endpoint: m.Endpoint,
			Keywords: m.Keywords,
		}
	}
	return mods
}

// Classifier builds the query classifier.
func (c *Config) Classifier() *zdchat.Classifier {
	return zdchat.NewClassifier(zdchat.ModuleTag(c.Fallback), c.DomainModules()...)
}

// Routes builds the routing table. The default route is the fallback
// module's endpoint when it declares one.
func (c *Config) Routes() zdchat.Routes {
	r := zdchat.RoutesFor(c.DomainModules()...)
	if ep, ok := r[zdchat.ModuleTag(c.Fallback)]; ok {
		r[""] = ep
	}
	return r
}

// VoiceTimeout returns the maximum recording length, or zero for none.
func (c *Config) VoiceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Voice.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GeminiAPIKey reads the Gemini key from the configured environment
// variable.
func (c *Config) GeminiAPIKey() string {
	if c.Gemini.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Gemini.APIKeyEnv)
}
