// Package bubbletea provides the terminal chat client: a session sidebar,
// the active conversation, and a message input, built on Bubble Tea.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. When ctx is cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StoreChangedMsg signals that the session store was mutated, either by
// this model or by a background title update.
type StoreChangedMsg struct{}

// SendDoneMsg signals that a submitted message has been answered.
type SendDoneMsg struct {
	Err error
}

// VoiceDoneMsg signals that a voice capture finished. On success the
// transcript has already been sent.
type VoiceDoneMsg struct {
	Err error
}
