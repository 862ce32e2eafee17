package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginRight(1)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("r: refresh token now  •  q: quit")
)

// NewDashboardCommand launches a live session view.
func NewDashboardCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Live terminal view of the gateway session",
		Long: `Launch an interactive view of the gateway session: hydration state,
token expiry countdown, refresh activity, and recent notifications.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			program := tea.NewProgram(newDashboardModel(container), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}
			return nil
		},
	}
}

type tickMsg time.Time

type refreshDoneMsg struct{ err error }

// dashboardModel holds the Bubble Tea state for the session view.
type dashboardModel struct {
	container  *CLIContainer
	width      int
	refreshing bool
	lastErr    error
}

func newDashboardModel(container *CLIContainer) dashboardModel {
	return dashboardModel{container: container}
}

func (m dashboardModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			refresher := m.container.Refresher
			return m, func() tea.Msg {
				_, err := refresher.AwaitToken(context.Background())
				return refreshDoneMsg{err: err}
			}
		}
	case refreshDoneMsg:
		m.refreshing = false
		m.lastErr = msg.err
	case tickMsg:
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Skylight session"))
	b.WriteByte('\n')

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sessionPanel(), m.profilePanel()))
	b.WriteByte('\n')
	b.WriteString(m.notificationsPanel())
	b.WriteByte('\n')
	b.WriteString(helpText)
	b.WriteByte('\n')
	return b.String()
}

func (m dashboardModel) sessionPanel() string {
	var lines []string

	state := m.container.State
	lines = append(lines, labelStyle.Render("hydrated  ")+yesNo(state.Hydrated()))

	pair, ok := state.CurrentTokens()
	lines = append(lines, labelStyle.Render("signed in ")+yesNo(ok))

	if ok {
		if exp, known := pair.AccessTokenExpiry(); known {
			remaining := time.Until(exp).Round(time.Second)
			if remaining > 0 {
				lines = append(lines, labelStyle.Render("token     ")+okStyle.Render(remaining.String()))
			} else {
				lines = append(lines, labelStyle.Render("token     ")+badStyle.Render("expired"))
			}
		}
	}

	switch {
	case m.refreshing || m.container.Refresher.Refreshing():
		line := labelStyle.Render("refresh   ") + okStyle.Render("in flight")
		if waiters := m.container.Refresher.PendingWaiters(); waiters > 1 {
			line += labelStyle.Render(fmt.Sprintf(" (%d waiting)", waiters))
		}
		lines = append(lines, line)
	case m.lastErr != nil:
		lines = append(lines, labelStyle.Render("refresh   ")+badStyle.Render(m.lastErr.Error()))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m dashboardModel) profilePanel() string {
	lines := []string{
		labelStyle.Render("gateway   ") + m.container.Config.APIURL,
		labelStyle.Render("profile   ") + m.container.Config.ProfileDir,
		labelStyle.Render("client id ") + m.container.Identity.ID(),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m dashboardModel) notificationsPanel() string {
	recent := m.container.Notifier.Recent()
	if len(recent) == 0 {
		return panelStyle.Render(labelStyle.Render("no notifications"))
	}

	// Newest first, at most ten lines.
	var lines []string
	for i := len(recent) - 1; i >= 0 && len(lines) < 10; i-- {
		n := recent[i]
		lines = append(lines, fmt.Sprintf("%s %s %s",
			labelStyle.Render(n.At.Format("15:04:05")),
			badge(n.Level),
			n.Message))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func yesNo(v bool) string {
	if v {
		return okStyle.Render("yes")
	}
	return badStyle.Render("no")
}
