// Package mock provides test doubles for zdchat interfaces using function fields.
package mock

import (
	"context"

	"github.com/zdco/zdchat"
)

// Interface compliance checks.
var (
	_ zdchat.Backend     = (*Backend)(nil)
	_ zdchat.Titler      = (*Titler)(nil)
	_ zdchat.Recognizer  = (*Recognizer)(nil)
	_ zdchat.Transcriber = (*Transcriber)(nil)
	_ zdchat.KV          = (*KV)(nil)
)

// Backend is a test double for zdchat.Backend.
// Set ChatFn before calling Chat.
type Backend struct {
	ChatFn func(ctx context.Context, endpoint, query string) ([]string, error)
}

// Chat delegates to ChatFn.
func (b *Backend) Chat(ctx context.Context, endpoint, query string) ([]string, error) {
	return b.ChatFn(ctx, endpoint, query)
}

// Titler is a test double for zdchat.Titler.
type Titler struct {
	GenerateTitleFn func(ctx context.Context, message string) (string, error)
}

// GenerateTitle delegates to GenerateTitleFn.
func (t *Titler) GenerateTitle(ctx context.Context, message string) (string, error) {
	return t.GenerateTitleFn(ctx, message)
}

// Recognizer is a test double for zdchat.Recognizer.
type Recognizer struct {
	RecognizeFn func(ctx context.Context) (string, error)
}

// Recognize delegates to RecognizeFn.
func (r *Recognizer) Recognize(ctx context.Context) (string, error) {
	return r.RecognizeFn(ctx)
}

// Transcriber is a test double for zdchat.Transcriber.
type Transcriber struct {
	TranscribeFn func(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Transcribe delegates to TranscribeFn.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return t.TranscribeFn(ctx, audio, mimeType)
}
