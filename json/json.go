// Package json implements [zdchat.Codec] using a versioned JSON envelope.
//
// Version 1 is the native format. A bare JSON array of sessions, the layout
// written by the browser client this store replaces, is accepted on read and
// upgraded on the next write.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zdco/zdchat"
)

// Interface compliance check.
var _ zdchat.Codec = Codec{}

const currentVersion = 1

// envelope is the v1 wire format for a persisted store.
type envelope struct {
	Version  int          `json:"version"`
	ActiveID string       `json:"active_id,omitempty"`
	Sessions []sessionDTO `json:"sessions"`
}

// Codec serializes store snapshots as JSON.
type Codec struct{}

// Marshal serializes a Snapshot in v1 envelope format.
func (Codec) Marshal(snap zdchat.Snapshot) ([]byte, error) {
	env := envelope{
		Version:  currentVersion,
		ActiveID: snap.ActiveID,
		Sessions: make([]sessionDTO, len(snap.Sessions)),
	}
	for i, s := range snap.Sessions {
		dto, err := marshalSession(s)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		env.Sessions[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal deserializes a Snapshot from a v1 envelope or a legacy bare
// array of sessions.
func (Codec) Unmarshal(data []byte) (zdchat.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return unmarshalLegacy(trimmed)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return zdchat.Snapshot{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != currentVersion {
		return zdchat.Snapshot{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	snap := zdchat.Snapshot{
		ActiveID: env.ActiveID,
		Sessions: make([]zdchat.Session, len(env.Sessions)),
	}
	for i, dto := range env.Sessions {
		s, err := unmarshalSession(dto)
		if err != nil {
			return zdchat.Snapshot{}, fmt.Errorf("session %d: %w", i, err)
		}
		snap.Sessions[i] = s
	}
	return snap, nil
}
