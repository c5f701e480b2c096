// Package tui implements a small live status dashboard for the router,
// polling its own /health endpoint the way an operator's terminal would.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD"))

	statusOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	statusFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const pollInterval = 2 * time.Second

// healthSnapshot mirrors httpapi's health response body.
type healthSnapshot struct {
	Status               string `json:"status"`
	SlackTriggersLoaded  int    `json:"slack_triggers_loaded"`
	JiraTriggersLoaded   int    `json:"jira_triggers_loaded"`
	GitHubTriggersLoaded int    `json:"github_triggers_loaded"`
	UptimeSeconds        int64  `json:"uptime_seconds"`
	DatabasePath         string `json:"database_path"`
}

type healthMsg healthSnapshot
type errMsg error

// Model is the bubbletea model driving the dashboard.
type Model struct {
	baseURL string

	width int

	health    healthSnapshot
	lastError error
	lastPoll  time.Time

	spin spinner.Model
}

// NewMonitor builds a Model that polls baseURL's /health endpoint.
func NewMonitor(baseURL string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Model{baseURL: baseURL, spin: s}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollHealth(), m.spin.Tick, tea.EnterAltScreen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case healthMsg:
		m.health = healthSnapshot(msg)
		m.lastError = nil
		m.lastPoll = time.Now()
		return m, tea.Tick(pollInterval, func(time.Time) tea.Msg { return m.fetchHealth() })

	case errMsg:
		m.lastError = msg
		m.lastPoll = time.Now()
		return m, tea.Tick(pollInterval, func(time.Time) tea.Msg { return m.fetchHealth() })

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	status := statusOK.Render("OK")
	if m.lastError != nil || (m.health.Status != "" && m.health.Status != "ok") {
		status = statusFailed.Render("DEGRADED")
	}

	uptime := time.Duration(m.health.UptimeSeconds) * time.Second
	body := []string{
		fmt.Sprintf("%s Status: %s", m.spin.View(), status),
		fmt.Sprintf("Uptime: %s", uptime),
		fmt.Sprintf("Slack triggers: %d", m.health.SlackTriggersLoaded),
		fmt.Sprintf("Jira triggers: %d", m.health.JiraTriggersLoaded),
		fmt.Sprintf("GitHub triggers: %d", m.health.GitHubTriggersLoaded),
		fmt.Sprintf("Database: %s", m.health.DatabasePath),
	}
	if m.lastError != nil {
		body = append(body, statusFailed.Render("error: "+m.lastError.Error()))
	}
	if !m.lastPoll.IsZero() {
		body = append(body, helpStyle.Render("last poll: "+m.lastPoll.Format("15:04:05")))
	}

	panel := borderStyle.Width(m.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			append([]string{titleStyle.Render("unihook")}, body...)...,
		),
	)

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, panel, helpStyle.Render(" [q] Quit")))
}

func (m Model) pollHealth() tea.Cmd {
	return func() tea.Msg { return m.fetchHealth() }
}

func (m Model) fetchHealth() tea.Msg {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(m.baseURL + "/health")
	if err != nil {
		return errMsg(err)
	}
	defer resp.Body.Close()

	var h healthSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return errMsg(err)
	}
	return healthMsg(h)
}
