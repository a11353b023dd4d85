package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zdco/zdchat"
)

var _ tea.Model = Model{}

const (
	inputHeight  = 3
	statusHeight = 1
	borderHeight = 2 // newlines between sections
)

const helpText = "Enter send · Ctrl+N new · Tab switch · Ctrl+R rerun · Ctrl+T voice · Ctrl+X clear · Ctrl+C quit"

// Model is the Bubble Tea model for the chat client.
type Model struct {
	// Input is the message editor. Exported for test access.
	Input textarea.Model
	// Viewport is the scrollable conversation. Exported for test access.
	Viewport viewport.Model

	store  *zdchat.Store
	conv   *zdchat.Conversation
	voice  *zdchat.Voice
	theme  zdchat.Theme
	styles Styles

	sessions []zdchat.SessionSummary
	activeID string
	messages []zdchat.Message
	blocks   []MessageBlock
	cache    map[string]MessageBlock // keyed by message ID

	sending   bool
	listening bool
	notice    string // blocking notice; any key dismisses it
	err       error

	width  int
	height int
	ready  bool
}

// New creates the chat Model. The store must already be initialized. A nil
// voice disables speech input.
func New(store *zdchat.Store, conv *zdchat.Conversation, voice *zdchat.Voice, theme zdchat.Theme) Model {
	if voice == nil {
		voice = zdchat.NewVoice(nil, conv)
	}
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = MaxChars
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	m := Model{
		Input:  ta,
		store:  store,
		conv:   conv,
		voice:  voice,
		theme:  theme,
		styles: NewStyles(theme),
		cache:  make(map[string]MessageBlock),
	}
	return m.refresh()
}

// Sending reports whether a typed or rerun message is awaiting its reply.
func (m Model) Sending() bool { return m.sending }

// Listening reports whether voice capture is running.
func (m Model) Listening() bool { return m.listening }

// Notice returns the blocking notice, if one is shown.
func (m Model) Notice() string { return m.notice }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.store.Changes()))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		return m.handleKey(msg)

	case StoreChangedMsg:
		m = m.refresh()
		return m, waitForChange(m.store.Changes())

	case SendDoneMsg:
		m.sending = false
		if msg.Err != nil && !errors.Is(msg.Err, zdchat.ErrBusy) {
			m.err = msg.Err
		}
		m = m.refresh()
		return m, m.Input.Focus()

	case VoiceDoneMsg:
		m.listening = false
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.notice = voiceNotice(msg.Err)
		}
		return m.refresh(), nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.sending {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var main strings.Builder
	if m.notice != "" {
		main.WriteString(m.renderNotice())
	} else {
		main.WriteString(m.Viewport.View())
	}
	main.WriteString("\n")
	main.WriteString(m.statusLine())
	main.WriteString("\n")
	main.WriteString(m.Input.View())

	sw := sidebarWidth(m.width)
	if sw == 0 {
		return main.String()
	}
	sidebar := renderSidebar(m.sessions, m.activeID, sw, m.height, m.styles)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main.String())
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width, m.height = msg.Width, msg.Height
	mainWidth := max(msg.Width-sidebarWidth(msg.Width), 1)
	vpHeight := max(msg.Height-inputHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = mainWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.SetWidth(mainWidth)
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.listening {
			m.voice.Stop()
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.busy() {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.Reset()
		return m.submit(text)

	case tea.KeyCtrlR:
		if m.busy() {
			return m, nil
		}
		last, ok := lastUserMessage(m.messages)
		if !ok {
			return m, nil
		}
		return m.submit(last.Content)

	case tea.KeyCtrlN:
		_, err := m.store.CreateSession()
		m.err = err
		return m.refresh(), nil

	case tea.KeyTab:
		return m.cycleSession(1), nil

	case tea.KeyShiftTab:
		return m.cycleSession(-1), nil

	case tea.KeyCtrlX:
		m.err = m.store.ClearAll()
		return m.refresh(), nil

	case tea.KeyCtrlT:
		if m.listening {
			m.voice.Stop()
			return m, nil
		}
		if m.busy() {
			return m, nil
		}
		m.listening = true
		m.err = nil
		return m, listen(m.voice)
	}

	// Page and arrow keys scroll the conversation; everything goes to the
	// editor while it is enabled.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !m.sending {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) busy() bool {
	return m.sending || m.listening || m.conv.Processing()
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.sending = true
	m.err = nil
	m.Input.Blur()
	return m, send(m.conv, text)
}

func (m Model) cycleSession(step int) Model {
	n := len(m.sessions)
	if n < 2 {
		return m
	}
	idx := 0
	for i, s := range m.sessions {
		if s.ID == m.activeID {
			idx = i
			break
		}
	}
	next := m.sessions[((idx+step)%n+n)%n]
	m.err = m.store.SetActive(next.ID)
	return m.refresh()
}

// refresh re-reads the store and rebuilds the conversation blocks.
func (m Model) refresh() Model {
	m.sessions = m.store.Sessions()
	m.activeID, _ = m.store.ActiveID()
	m.messages = m.store.ActiveMessages()

	m.blocks = make([]MessageBlock, 0, len(m.messages))
	for _, msg := range m.messages {
		block, ok := m.cache[msg.ID]
		if !ok {
			block = m.newBlock(msg)
			m.cache[msg.ID] = block
		}
		m.blocks = append(m.blocks, block)
	}

	if m.ready {
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) newBlock(msg zdchat.Message) MessageBlock {
	if msg.Sender == zdchat.SenderUser {
		return NewUserMessageBlock(msg, m.styles)
	}
	return NewAssistantMessageBlock(msg, m.theme, m.styles)
}

func (m Model) renderContent() string {
	width := m.Viewport.Width
	if len(m.blocks) == 0 {
		welcome := m.styles.Accent.Render("Welcome to ZDCO AI Assistant") + "\n\n" +
			m.styles.Muted.Render("Ask me anything about ZDCO services, orders, or your fleet.")
		return lipgloss.Place(width, m.Viewport.Height, lipgloss.Center, lipgloss.Center, welcome)
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(width))
	}
	return b.String()
}

func (m Model) renderNotice() string {
	body := m.styles.Error.Render(m.notice) + "\n\n" + m.styles.Muted.Render("Press any key to continue")
	box := m.styles.Notice.Render(body)
	return lipgloss.Place(m.Viewport.Width, m.Viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) statusLine() string {
	var left string
	switch {
	case m.listening && m.voice.Listening():
		left = m.styles.Accent.Render("Listening... (Ctrl+T to stop)")
	case m.sending || m.conv.Processing():
		left = m.styles.Muted.Render("Thinking...")
	case m.err != nil:
		left = m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	default:
		left = m.styles.Muted.Render(helpText)
	}

	right := m.counter()
	if right == "" {
		return left
	}
	gap := m.Viewport.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func voiceNotice(err error) string {
	switch {
	case errors.Is(err, zdchat.ErrVoiceUnsupported):
		return "Voice input is not supported on this system."
	case errors.Is(err, zdchat.ErrNoSpeech):
		return "No speech was detected. Please try again."
	case errors.Is(err, zdchat.ErrBusy):
		return "Please wait for the current reply before speaking."
	default:
		return fmt.Sprintf("Voice input failed: %v", err)
	}
}

func lastUserMessage(msgs []zdchat.Message) (zdchat.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == zdchat.SenderUser {
			return msgs[i], true
		}
	}
	return zdchat.Message{}, false
}

// send delivers text through the conversation off the UI goroutine.
func send(conv *zdchat.Conversation, text string) tea.Cmd {
	return func() tea.Msg {
		return SendDoneMsg{Err: conv.Send(context.Background(), text)}
	}
}

// listen runs one voice capture off the UI goroutine.
func listen(v *zdchat.Voice) tea.Cmd {
	return func() tea.Msg {
		return VoiceDoneMsg{Err: v.Listen(context.Background())}
	}
}

// waitForChange blocks until the store signals a mutation.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}
