package zdchat

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Recognizer captures one spoken utterance and returns its transcript.
// Implementations stop when ctx is cancelled.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Unsupported is the Recognizer for platforms without speech input.
type Unsupported struct{}

// Recognize always returns ErrVoiceUnsupported.
func (Unsupported) Recognize(context.Context) (string, error) {
	return "", ErrVoiceUnsupported
}

var (
	_ Recognizer = Unsupported{}
)

// Voice feeds recognized speech into a Conversation. At most one
// recognition runs at a time.
type Voice struct {
	rec  Recognizer
	conv *Conversation

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewVoice creates a Voice. A nil rec behaves as Unsupported.
func NewVoice(rec Recognizer, conv *Conversation) *Voice {
	if rec == nil {
		rec = Unsupported{}
	}
	return &Voice{rec: rec, conv: conv}
}

// Listening reports whether a recognition is in progress.
func (v *Voice) Listening() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cancel != nil
}

// Listen records one utterance and sends its transcript. On any
// recognition failure nothing is sent and the error is returned for the
// caller to show.
func (v *Voice) Listen(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel != nil {
		v.mu.Unlock()
		return ErrBusy
	}
	listenCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	text, err := v.rec.Recognize(listenCtx)

	v.mu.Lock()
	v.cancel = nil
	v.mu.Unlock()
	cancel()

	if err != nil {
		return fmt.Errorf("voice: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("voice: %w", ErrNoSpeech)
	}
	return v.conv.Send(ctx, text)
}

// Stop ends an in-progress recognition. It is a no-op when idle.
func (v *Voice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
}
