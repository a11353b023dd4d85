package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/zdco/zdchat"
	"go.uber.org/zap"
)

// Interface compliance check.
var _ zdchat.Recognizer = (*Recognizer)(nil)

// Recognizer records one utterance with Command and transcribes it.
//
// Command is a bash command line containing FilePlaceholder. It should exit
// on its own when the speaker stops, e.g. with sox's silence effect. After
// Timeout the recorder group receives SIGINT so it can finalize the file,
// and whatever was captured is transcribed. Cancelling the context aborts
// without transcribing.
type Recognizer struct {
	Command     string
	MimeType    string
	Timeout     time.Duration
	Transcriber zdchat.Transcriber
	Logger      *zap.Logger
}

// Recognize implements [zdchat.Recognizer].
func (r *Recognizer) Recognize(ctx context.Context) (string, error) {
	if r.Transcriber == nil {
		return "", errors.New("exec: no transcriber configured")
	}
	if !strings.Contains(r.Command, FilePlaceholder) {
		return "", fmt.Errorf("exec: recorder command has no %s placeholder", FilePlaceholder)
	}
	mimeType := r.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.CreateTemp("", "zdchat-voice-*"+extensionFor(mimeType))
	if err != nil {
		return "", fmt.Errorf("exec: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	defer os.Remove(path)

	if err := r.record(ctx, path, logger); err != nil {
		return "", err
	}

	audio, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("exec: read recording: %w", err)
	}
	logger.Debug("recording captured", zap.Int("bytes", len(audio)), zap.String("mime_type", mimeType))
	if len(audio) == 0 {
		return "", nil
	}
	text, err := r.Transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return "", fmt.Errorf("exec: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (r *Recognizer) record(ctx context.Context, path string, logger *zap.Logger) error {
	recordCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		recordCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	command := strings.ReplaceAll(r.Command, FilePlaceholder, shellQuote(path))
	cmd := osexec.CommandContext(recordCtx, "bash", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGINT)
	}
	cmd.WaitDelay = 2 * time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("recorder started", zap.String("command", command))
	waitErr := cmd.Run()

	if err := ctx.Err(); err != nil {
		return err
	}
	if waitErr != nil && recordCtx.Err() == nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("exec: recorder: %w: %s", waitErr, msg)
		}
		return fmt.Errorf("exec: recorder: %w", waitErr)
	}
	return nil
}

// lastLine returns the final non-blank line of recorder diagnostics with
// escape codes removed. Progress meters redraw with \r, so only the text
// after the last carriage return of a line counts.
func lastLine(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if j := strings.LastIndexByte(line, '\r'); j >= 0 {
			line = line[j+1:]
		}
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
