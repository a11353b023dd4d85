package zdchat

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Conversation turns submitted text into a user message, a backend call,
// and an assistant reply, all recorded in a Store.
type Conversation struct {
	store      *Store
	classifier *Classifier
	backend    Backend
	routes     Routes
	logger     *zap.Logger
	now        func() time.Time

	processing atomic.Bool
}

// ConversationOption configures a [Conversation].
type ConversationOption func(*Conversation)

// WithConversationLogger sets the logger. The default discards everything.
func WithConversationLogger(l *zap.Logger) ConversationOption {
	return func(c *Conversation) { c.logger = l }
}

// WithConversationClock sets the time source for message timestamps.
func WithConversationClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) { c.now = now }
}

// NewConversation creates a Conversation.
func NewConversation(store *Store, classifier *Classifier, backend Backend, routes Routes, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		store:      store,
		classifier: classifier,
		backend:    backend,
		routes:     routes,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Processing reports whether a Send is in flight.
func (c *Conversation) Processing() bool {
	return c.processing.Load()
}

// Send classifies text, records it as a user message in the active session
// (creating one if needed), asks the backend on the module's endpoint, and
// records the reply. Backend failures never reach the caller: they are
// recorded as an assistant message holding FailureNotice.
//
// Exactly one user and one assistant message are appended per successful
// call. Send returns ErrBusy without side effects while another Send is in
// flight, and ErrEmptyMessage for blank text.
func (c *Conversation) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if !c.processing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.processing.Store(false)

	tag := c.classifier.Classify(text)
	sessionID := c.ensureSession()
	log := c.logger.With(zap.String("session_id", sessionID), zap.String("module", string(tag)))

	if err := c.record(NewUserMessage(text, tag, c.now()), sessionID, log); err != nil {
		return err
	}

	reply := c.ask(ctx, tag, text, log)
	return c.record(NewAssistantMessage(reply, tag, c.now()), sessionID, log)
}

func (c *Conversation) ensureSession() string {
	if id, ok := c.store.ActiveID(); ok {
		return id
	}
	sess, err := c.store.CreateSession()
	if err != nil {
		c.logger.Warn("persist new session", zap.Error(err))
	}
	return sess.ID
}

// record appends msg. Persistence failures are logged and swallowed; a
// session vanishing mid-send (cleared) is returned.
func (c *Conversation) record(msg Message, sessionID string, log *zap.Logger) error {
	err := c.store.Append(msg, sessionID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSessionNotFound):
		log.Warn("session gone before message was recorded", zap.String("sender", string(msg.Sender)))
		return err
	default:
		log.Warn("persist message", zap.Error(err))
		return nil
	}
}

func (c *Conversation) ask(ctx context.Context, tag ModuleTag, text string, log *zap.Logger) string {
	endpoint, err := c.routes.Endpoint(tag)
	if err != nil {
		log.Error("route query", zap.Error(err))
		return FailureNotice
	}
	start := c.now()
	parts, err := c.backend.Chat(ctx, endpoint, text)
	if err != nil {
		log.Warn("chat request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return FailureNotice
	}
	log.Info("chat reply", zap.String("endpoint", endpoint), zap.Int("segments", len(parts)),
		zap.Duration("elapsed", c.now().Sub(start)))
	return FormatReply(parts)
}
