package zdchat

import "context"

// Backend sends a classified query to the assistant service. Chat returns
// the reply as one or more text segments; a single-string reply is a slice
// of length one.
type Backend interface {
	Chat(ctx context.Context, endpoint, query string) ([]string, error)
}

// Titler derives a short session title from the first user message.
type Titler interface {
	GenerateTitle(ctx context.Context, message string) (string, error)
}

// KV is the durable key-value port behind the session store.
// Get returns ErrNotFound when the key is absent. Delete of an absent key
// is not an error.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Snapshot is the persisted state of a Store.
type Snapshot struct {
	ActiveID string
	Sessions []Session
}

// Codec serializes store snapshots for a KV.
type Codec interface {
	Marshal(Snapshot) ([]byte, error)
	Unmarshal([]byte) (Snapshot, error)
}
