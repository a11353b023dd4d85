package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/zdco/zdchat"
	bt "github.com/zdco/zdchat/bubbletea"
	zdjson "github.com/zdco/zdchat/json"
	"github.com/zdco/zdchat/mock"
)

type fixture struct {
	store *zdchat.Store
	conv  *zdchat.Conversation
	voice *zdchat.Voice
}

// newFixture wires an initialized store over an in-memory KV with a
// conversation answering through chat.
func newFixture(t *testing.T, chat func(ctx context.Context, endpoint, query string) ([]string, error), rec zdchat.Recognizer) fixture {
	t.Helper()
	store := zdchat.NewStore(mock.NewKV(nil), zdjson.Codec{})
	store.Initialize()
	t.Cleanup(func() { _ = store.Close() })

	modules := zdchat.DefaultModules()
	conv := zdchat.NewConversation(store,
		zdchat.NewClassifier(zdchat.ModuleAfaqy, modules...),
		&mock.Backend{ChatFn: chat},
		zdchat.RoutesFor(modules...),
	)
	return fixture{store: store, conv: conv, voice: zdchat.NewVoice(rec, conv)}
}

func echoChat(_ context.Context, _, query string) ([]string, error) {
	return []string{"You said: " + query}, nil
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, f fixture) bt.Model {
	t.Helper()
	return initModelWithSize(t, f, 100, 30)
}

func initModelWithSize(t *testing.T, f fixture, width, height int) bt.Model {
	t.Helper()
	m := bt.New(f.store, f.conv, f.voice, zdchat.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeText feeds text to the model as a single runes key event.
func typeText(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// press sends key and runs the resulting command, feeding its message back
// into the model. Batched and nil commands are not executed.
func press(t *testing.T, m bt.Model, key tea.KeyType) bt.Model {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	if cmd == nil {
		return model
	}
	switch msg := cmd().(type) {
	case bt.SendDoneMsg, bt.VoiceDoneMsg:
		return updateModel(t, model, msg)
	}
	return model
}
