package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"skylight.app/cli/internal/core/ports"
)

// maxRecentNotifications bounds the ring kept for the dashboard view.
const maxRecentNotifications = 50

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// Notification is one user-facing message kept for display.
type Notification struct {
	Message string
	Level   ports.NotifyLevel
	At      time.Time
}

// TerminalNotifier renders notifications as styled terminal lines and keeps
// a bounded history for the dashboard. It is the CLI stand-in for the web
// client's toast layer.
type TerminalNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	recent []Notification
}

// NewTerminalNotifier writes to stderr so notifications never mix with
// command output meant for pipes.
func NewTerminalNotifier() *TerminalNotifier {
	return &TerminalNotifier{out: os.Stderr}
}

// Notify renders the message immediately and records it.
func (n *TerminalNotifier) Notify(message string, level ports.NotifyLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.recent = append(n.recent, Notification{Message: message, Level: level, At: time.Now()})
	if len(n.recent) > maxRecentNotifications {
		n.recent = n.recent[len(n.recent)-maxRecentNotifications:]
	}

	fmt.Fprintf(n.out, "%s %s\n", badge(level), messageStyle.Render(message))
}

// Recent returns a copy of the notification history, newest last.
func (n *TerminalNotifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.recent))
	copy(out, n.recent)
	return out
}

func badge(level ports.NotifyLevel) string {
	switch level {
	case ports.NotifyError:
		return errorStyle.Render("✗ ERROR")
	case ports.NotifyWarning:
		return warnStyle.Render("! WARN")
	default:
		return infoStyle.Render("• INFO")
	}
}

var _ ports.Notifier = (*TerminalNotifier)(nil)
