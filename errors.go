package zdchat

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrSessionNotFound indicates no session matched the requested ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateMessage indicates a message ID already exists in the session.
	ErrDuplicateMessage = errors.New("duplicate message id")

	// ErrBusy indicates a send or listen is already in flight.
	ErrBusy = errors.New("busy: request already in flight")

	// ErrEmptyMessage indicates the submitted text was blank.
	ErrEmptyMessage = errors.New("empty message")

	// ErrNoRoute indicates no endpoint is configured for a module tag.
	ErrNoRoute = errors.New("no route for module")

	// ErrNotFound indicates a key is absent from a KV store.
	ErrNotFound = errors.New("key not found")

	// ErrVoiceUnsupported indicates speech recognition is unavailable.
	ErrVoiceUnsupported = errors.New("speech recognition is not supported")

	// ErrNoSpeech indicates recognition finished without a transcript.
	ErrNoSpeech = errors.New("no speech recognized")
)
