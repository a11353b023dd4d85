package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zdco/zdchat"
	bt "github.com/zdco/zdchat/bubbletea"
	"github.com/zdco/zdchat/mock"
)

func TestNew(t *testing.T) {
	t.Parallel()
	f := newFixture(t, echoChat, nil)
	m := bt.New(f.store, f.conv, f.voice, zdchat.DefaultTheme())

	assert.False(t, m.Sending())
	assert.False(t, m.Listening())
	assert.NoError(t, m.Err())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	t.Run("sizes viewport beside the sidebar", func(t *testing.T) {
		t.Parallel()
		m := initModelWithSize(t, newFixture(t, echoChat, nil), 90, 24)
		// Sidebar takes 90/3 = 30, capped at 28.
		assert.Equal(t, 62, m.Viewport.Width)
		// 24 - input(3) - status(1) - separators(2)
		assert.Equal(t, 18, m.Viewport.Height)
	})

	t.Run("narrow terminals hide the sidebar", func(t *testing.T) {
		t.Parallel()
		m := initModelWithSize(t, newFixture(t, echoChat, nil), 50, 20)
		assert.Equal(t, 50, m.Viewport.Width)
		assert.NotContains(t, ansi.Strip(m.View()), "Chats")
	})

	t.Run("resize re-renders content", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(context.Context, string, string) ([]string, error) {
			return []string{"word1 word2 word3 word4 word5 word6 word7 word8"}, nil
		}, nil)
		m := initModelWithSize(t, f, 40, 30)
		m = typeText(t, m, "hello")
		m = press(t, m, tea.KeyEnter)

		m = updateModel(t, m, tea.WindowSizeMsg{Width: 160, Height: 30})
		found := false
		for _, line := range strings.Split(m.Viewport.View(), "\n") {
			if strings.Contains(line, "word1") && strings.Contains(line, "word8") {
				found = true
			}
		}
		assert.True(t, found, "reply should fit on one line after widening:\n%s", m.Viewport.View())
	})
}

func TestModel_Welcome(t *testing.T) {
	t.Parallel()
	m := initModel(t, newFixture(t, echoChat, nil))
	assert.Contains(t, ansi.Strip(bt.RenderContent(m)), "Welcome to ZDCO AI Assistant")
	assert.Contains(t, ansi.Strip(m.View()), "Chat 1")
}

func TestModel_Send(t *testing.T) {
	t.Parallel()

	t.Run("enter sends to the classified endpoint", func(t *testing.T) {
		t.Parallel()
		var gotEndpoint string
		f := newFixture(t, func(_ context.Context, endpoint, _ string) ([]string, error) {
			gotEndpoint = endpoint
			return []string{"It shipped. Arrives Monday."}, nil
		}, nil)
		m := initModel(t, f)
		m = typeText(t, m, "Where is my shipment?")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(bt.Model)
		require.NotNil(t, cmd)
		assert.True(t, m.Sending())
		assert.Empty(t, m.Input.Value())
		assert.Contains(t, ansi.Strip(m.View()), "Thinking...")

		m = updateModel(t, m, cmd())
		assert.False(t, m.Sending())
		assert.Equal(t, "/chat_order", gotEndpoint)

		content := ansi.Strip(bt.RenderContent(m))
		assert.Contains(t, content, "> Where is my shipment?")
		assert.Contains(t, content, "📦 Order Module")
		assert.Contains(t, content, "It shipped.")
		assert.Contains(t, content, "Arrives Monday.")
		assert.NotContains(t, content, "It shipped. Arrives")
	})

	t.Run("empty input does nothing", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, newFixture(t, echoChat, nil))
		m = typeText(t, m, "   ")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("enter while sending is ignored", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, newFixture(t, echoChat, nil))
		m = typeText(t, m, "first")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.True(t, m.Sending())

		m = typeText(t, m, "second")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("backend failure shows the notice as a reply", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(context.Context, string, string) ([]string, error) {
			return nil, errors.New("connection refused")
		}, nil)
		m := initModel(t, f)
		m = typeText(t, m, "hello")
		m = press(t, m, tea.KeyEnter)

		assert.NoError(t, m.Err())
		assert.Contains(t, ansi.Strip(bt.RenderContent(m)), zdchat.FailureNotice)
	})
}

func TestModel_Rerun(t *testing.T) {
	t.Parallel()
	var queries []string
	f := newFixture(t, func(_ context.Context, _, query string) ([]string, error) {
		queries = append(queries, query)
		return []string{"ok"}, nil
	}, nil)
	m := initModel(t, f)

	m = press(t, m, tea.KeyCtrlR)
	assert.Empty(t, queries, "nothing to rerun in an empty chat")

	m = typeText(t, m, "Where is truck 42?")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyCtrlR)

	assert.Equal(t, []string{"Where is truck 42?", "Where is truck 42?"}, queries)
	assert.Len(t, f.store.ActiveMessages(), 4)
	_ = m
}

func TestModel_Sessions(t *testing.T) {
	t.Parallel()

	t.Run("ctrl+n creates and activates a chat", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := initModel(t, f)
		m = press(t, m, tea.KeyCtrlN)

		sessions := f.store.Sessions()
		require.Len(t, sessions, 2)
		active, _ := f.store.ActiveID()
		assert.Equal(t, sessions[1].ID, active)
		assert.Contains(t, ansi.Strip(m.View()), "▸ Chat 2")
	})

	t.Run("tab and shift+tab cycle chats", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := initModel(t, f)
		m = press(t, m, tea.KeyCtrlN)
		m = press(t, m, tea.KeyCtrlN)
		sessions := f.store.Sessions()
		require.Len(t, sessions, 3)

		m = press(t, m, tea.KeyTab)
		active, _ := f.store.ActiveID()
		assert.Equal(t, sessions[0].ID, active, "tab wraps to the first chat")

		m = press(t, m, tea.KeyShiftTab)
		active, _ = f.store.ActiveID()
		assert.Equal(t, sessions[2].ID, active, "shift+tab wraps back")
		_ = m
	})

	t.Run("switching shows the selected chat", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := initModel(t, f)
		m = typeText(t, m, "first chat message")
		m = press(t, m, tea.KeyEnter)
		m = press(t, m, tea.KeyCtrlN)
		assert.NotContains(t, ansi.Strip(bt.RenderContent(m)), "first chat message")

		m = press(t, m, tea.KeyTab)
		assert.Contains(t, ansi.Strip(bt.RenderContent(m)), "first chat message")
	})

	t.Run("ctrl+x clears everything", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := initModel(t, f)
		m = typeText(t, m, "hello")
		m = press(t, m, tea.KeyEnter)
		m = press(t, m, tea.KeyCtrlX)

		assert.Empty(t, f.store.Sessions())
		view := ansi.Strip(m.View())
		assert.Contains(t, view, "No chats yet")
		assert.Contains(t, view, "Welcome to ZDCO AI Assistant")
	})

	t.Run("sending after clear starts a new chat", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := initModel(t, f)
		m = press(t, m, tea.KeyCtrlX)
		m = typeText(t, m, "hello again")
		m = press(t, m, tea.KeyEnter)

		require.Len(t, f.store.Sessions(), 1)
		assert.Contains(t, ansi.Strip(bt.RenderContent(m)), "You said: hello again")
	})

	t.Run("store changes refresh the sidebar", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := initModel(t, f)
		_, err := f.store.CreateSession()
		require.NoError(t, err)

		assert.NotContains(t, ansi.Strip(m.View()), "Chat 2")
		m = updateModel(t, m, bt.StoreChangedMsg{})
		assert.Contains(t, ansi.Strip(m.View()), "Chat 2")
	})
}

func TestModel_Counter(t *testing.T) {
	t.Parallel()

	t.Run("hidden when empty", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, newFixture(t, echoChat, nil))
		assert.NotContains(t, ansi.Strip(m.View()), "4000")
	})

	t.Run("counts remaining characters", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, newFixture(t, echoChat, nil))
		m = typeText(t, m, "abc")
		assert.Contains(t, ansi.Strip(m.View()), "3997")
	})

	t.Run("grapheme clusters count once", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, bt.MaxChars-1, bt.CharsRemaining("🇸🇦"))
		assert.Equal(t, bt.MaxChars-1, bt.CharsRemaining("é"))
		assert.Equal(t, bt.MaxChars, bt.CharsRemaining(""))
	})

	t.Run("input stops at the limit", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, newFixture(t, echoChat, nil))
		m.Input.SetValue(strings.Repeat("a", bt.MaxChars+50))
		assert.Equal(t, bt.MaxChars, len([]rune(m.Input.Value())))
	})
}

func TestModel_Voice(t *testing.T) {
	t.Parallel()

	t.Run("unsupported shows a blocking notice", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, newFixture(t, echoChat, nil))
		m = press(t, m, tea.KeyCtrlT)

		assert.False(t, m.Listening())
		assert.Contains(t, m.Notice(), "not supported")
		assert.Contains(t, ansi.Strip(m.View()), "Press any key")

		// Any key dismisses without reaching the editor.
		m = typeText(t, m, "x")
		assert.Empty(t, m.Notice())
		assert.Empty(t, m.Input.Value())
	})

	t.Run("transcript is sent", func(t *testing.T) {
		t.Parallel()
		var gotEndpoint string
		rec := &mock.Recognizer{RecognizeFn: func(context.Context) (string, error) {
			return "where is truck 42", nil
		}}
		f := newFixture(t, func(_ context.Context, endpoint, _ string) ([]string, error) {
			gotEndpoint = endpoint
			return []string{"In Riyadh."}, nil
		}, rec)
		m := initModel(t, f)

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
		m = updated.(bt.Model)
		require.NotNil(t, cmd)
		assert.True(t, m.Listening())

		m = updateModel(t, m, cmd())
		assert.False(t, m.Listening())
		assert.Empty(t, m.Notice())
		assert.Equal(t, "/chat", gotEndpoint)
		assert.Contains(t, ansi.Strip(bt.RenderContent(m)), "🚛 Afaqy Module")
	})

	t.Run("no speech shows a notice and sends nothing", func(t *testing.T) {
		t.Parallel()
		rec := &mock.Recognizer{RecognizeFn: func(context.Context) (string, error) {
			return "  ", nil
		}}
		f := newFixture(t, echoChat, rec)
		m := initModel(t, f)
		m = press(t, m, tea.KeyCtrlT)

		assert.Contains(t, m.Notice(), "No speech")
		assert.Empty(t, f.store.ActiveMessages())
	})

	t.Run("ctrl+t while listening stops without a notice", func(t *testing.T) {
		t.Parallel()
		started := make(chan struct{})
		rec := &mock.Recognizer{RecognizeFn: func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}}
		m := initModel(t, newFixture(t, echoChat, rec))

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
		m = updated.(bt.Model)
		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()
		<-started

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
		select {
		case msg := <-done:
			m = updateModel(t, m, msg)
		case <-time.After(5 * time.Second):
			t.Fatal("voice capture did not stop")
		}
		assert.False(t, m.Listening())
		assert.Empty(t, m.Notice())
	})
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()
	m := initModel(t, newFixture(t, echoChat, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestSidebar(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(zdchat.DefaultTheme())
	sessions := []zdchat.SessionSummary{
		{ID: "a", Title: "Shipment Inquiry"},
		{ID: "b", Title: "A very long title about the maintenance schedule of the fleet"},
	}
	view := ansi.Strip(bt.RenderSidebar(sessions, "a", 24, 6, styles))
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Chats")
	assert.Contains(t, lines[1], "▸ Shipment Inquiry")
	assert.Contains(t, lines[2], "…")
	for _, line := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), 24)
	}
}

func TestTruncateTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Chat 1", bt.TruncateTitle("Chat 1", 10))
	assert.Equal(t, "Shipmen…", bt.TruncateTitle("Shipment Inquiry", 8))
	assert.Equal(t, "شحنة…", bt.TruncateTitle("شحنة متأخرة", 5))
	assert.Equal(t, "運送…", bt.TruncateTitle("運送状況確認", 5))
	assert.Equal(t, "", bt.TruncateTitle("anything", 0))
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("send and receive a reply", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, func(context.Context, string, string) ([]string, error) {
			return []string{"Your order left the depot."}, nil
		}, nil)
		m := bt.New(f.store, f.conv, f.voice, zdchat.DefaultTheme())
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

		tm.Type("Where is my order?")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("left the depot")) &&
				bytes.Contains(out, []byte("Order Module"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Sending())
		assert.Len(t, f.store.ActiveMessages(), 2)
	})

	t.Run("outside store changes reach the sidebar", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, echoChat, nil)
		m := bt.New(f.store, f.conv, f.voice, zdchat.DefaultTheme())
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Chat 1"))
		}, teatest.WithDuration(5*time.Second))

		_, err := f.store.CreateSession()
		require.NoError(t, err)

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Chat 2"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})
}
