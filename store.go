package zdchat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultStorageKey is the KV key holding the persisted session list.
const DefaultStorageKey = "zdco_chat_sessions"

// Store owns the chat sessions and the active-session pointer.
//
// All mutations are serialized behind one lock and written through to the KV
// before the mutating call returns. Title generation runs detached; its
// result re-enters the store through applyTitle, which only ever touches the
// title fields of a session, so it cannot clobber concurrent appends.
type Store struct {
	kv     KV
	codec  Codec
	titler Titler
	logger *zap.Logger
	key    string
	now    func() time.Time

	mu          sync.Mutex
	sessions    []*Session
	activeID    string
	initialized bool
	closed      bool

	changes chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithTitler sets the title generator. Without one, sessions keep their
// placeholder titles.
func WithTitler(t Titler) StoreOption {
	return func(s *Store) { s.titler = t }
}

// WithStoreLogger sets the logger. The default discards everything.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source used for session timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store persisting through kv with codec. Call
// Initialize before use.
func NewStore(kv KV, codec Codec, opts ...StoreOption) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		kv:      kv,
		codec:   codec,
		logger:  zap.NewNop(),
		key:     DefaultStorageKey,
		now:     time.Now,
		changes: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize loads persisted state. Absent, empty, or unreadable state is
// replaced by a single fresh session; unreadable state is also erased.
// Subsequent calls are no-ops.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true

	data, err := s.kv.Get(s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Debug("no persisted sessions", zap.String("key", s.key))
	case err != nil:
		s.logger.Warn("read persisted sessions", zap.String("key", s.key), zap.Error(err))
		s.discardLocked()
	default:
		snap, err := s.decode(data)
		if err != nil {
			s.logger.Warn("discarding corrupted sessions", zap.String("key", s.key), zap.Error(err))
			s.discardLocked()
			break
		}
		s.restoreLocked(snap)
	}

	if len(s.sessions) == 0 {
		s.createLocked()
		_ = s.persistLocked()
	}
	s.notify()
}

func (s *Store) decode(data []byte) (Snapshot, error) {
	snap, err := s.codec.Unmarshal(data)
	if err != nil {
		return Snapshot{}, err
	}
	seen := make(map[string]bool, len(snap.Sessions))
	for _, sess := range snap.Sessions {
		if sess.ID == "" {
			return Snapshot{}, errors.New("session with empty id")
		}
		if seen[sess.ID] {
			return Snapshot{}, fmt.Errorf("duplicate session id %q", sess.ID)
		}
		seen[sess.ID] = true
	}
	return snap, nil
}

func (s *Store) restoreLocked(snap Snapshot) {
	s.sessions = make([]*Session, 0, len(snap.Sessions))
	for i := range snap.Sessions {
		sess := snap.Sessions[i].clone()
		s.sessions = append(s.sessions, &sess)
	}
	s.activeID = ""
	if s.findLocked(snap.ActiveID) != nil {
		s.activeID = snap.ActiveID
	} else if len(s.sessions) > 0 {
		s.activeID = s.sessions[0].ID
	}
}

func (s *Store) discardLocked() {
	if err := s.kv.Delete(s.key); err != nil {
		s.logger.Warn("erase persisted sessions", zap.String("key", s.key), zap.Error(err))
	}
}

// CreateSession appends a new placeholder-titled session and makes it active.
// The session is kept even when persisting it fails; the error is returned.
func (s *Store) CreateSession() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.createLocked()
	err := s.persistLocked()
	s.notify()
	return sess.clone(), err
}

func (s *Store) createLocked() *Session {
	id := NewID()
	for s.findLocked(id) != nil {
		id = NewID()
	}
	sess := &Session{
		ID:        id,
		Title:     PlaceholderTitle(len(s.sessions) + 1),
		CreatedAt: s.now(),
	}
	s.sessions = append(s.sessions, sess)
	s.activeID = id
	s.logger.Info("session created", zap.String("session_id", id))
	return sess
}

// Sessions lists sessions in creation order.
func (s *Store) Sessions() []SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SessionSummary, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = SessionSummary{ID: sess.ID, Title: sess.Title}
	}
	return out
}

// Session returns a copy of the session with id.
func (s *Store) Session(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.findLocked(id)
	if sess == nil {
		return Session{}, false
	}
	return sess.clone(), true
}

// ActiveID returns the active session ID, if any.
func (s *Store) ActiveID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != ""
}

// ActiveMessages returns a copy of the active session's messages, or nil
// when no session is active.
func (s *Store) ActiveMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.findLocked(s.activeID)
	if sess == nil {
		return nil
	}
	return append([]Message(nil), sess.Messages...)
}

// SetActive points the store at session id. Unknown IDs leave the pointer
// unchanged and return ErrSessionNotFound.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(id) == nil {
		return fmt.Errorf("set active %q: %w", id, ErrSessionNotFound)
	}
	if s.activeID == id {
		return nil
	}
	s.activeID = id
	err := s.persistLocked()
	s.notify()
	return err
}

// Append adds msg to the session with sessionID, or to the active session
// when sessionID is empty. Nothing changes when no session resolves.
//
// The first user message of an untitled session starts a detached title
// request; its outcome only ever replaces the session title.
func (s *Store) Append(msg Message, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = s.activeID
	}
	sess := s.findLocked(sessionID)
	if sess == nil {
		return fmt.Errorf("append to %q: %w", sessionID, ErrSessionNotFound)
	}
	if sess.hasMessage(msg.ID) {
		return fmt.Errorf("append %q: %w", msg.ID, ErrDuplicateMessage)
	}

	firstUser := msg.Sender == SenderUser && !sess.Titled && !sess.hasUserMessage()
	sess.Messages = append(sess.Messages, msg)
	err := s.persistLocked()
	s.notify()

	if firstUser {
		s.requestTitleLocked(sess.ID, msg.Content)
	}
	return err
}

func (s *Store) requestTitleLocked(sessionID, content string) {
	if s.titler == nil || s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		title, err := s.titler.GenerateTitle(s.ctx, content)
		if err != nil {
			s.logger.Debug("title generation failed", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		s.applyTitle(sessionID, title)
	}()
}

// applyTitle replaces the placeholder title of session id. Blank titles,
// missing sessions, and already-titled sessions are ignored.
func (s *Store) applyTitle(id, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.findLocked(id)
	if sess == nil || sess.Titled {
		return
	}
	sess.Title = title
	sess.Titled = true
	_ = s.persistLocked()
	s.notify()
}

// ClearAll removes every session, clears the active pointer, and erases the
// persisted state.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	s.activeID = ""
	err := s.kv.Delete(s.key)
	if err != nil {
		s.logger.Error("erase persisted sessions", zap.String("key", s.key), zap.Error(err))
		err = fmt.Errorf("clear: %w", err)
	}
	s.notify()
	return err
}

// Changes delivers a signal after mutations. Signals coalesce: a reader
// sees at least one signal after any burst of changes.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Wait blocks until all pending title requests have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels pending title requests and waits for them to return.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Store) findLocked(id string) *Session {
	if id == "" {
		return nil
	}
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func (s *Store) persistLocked() error {
	snap := Snapshot{ActiveID: s.activeID, Sessions: make([]Session, len(s.sessions))}
	for i, sess := range s.sessions {
		snap.Sessions[i] = sess.clone()
	}
	data, err := s.codec.Marshal(snap)
	if err != nil {
		s.logger.Error("encode sessions", zap.Error(err))
		return fmt.Errorf("persist: %w", err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		s.logger.Error("write sessions", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
