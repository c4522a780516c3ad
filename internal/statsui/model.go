// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/termtypr/termtypr/internal/history"
	"github.com/termtypr/termtypr/internal/stats"
)

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	bestStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	repo        history.Repository
	trendWindow int
	recentN     int

	report stats.Report
	errMsg string

	recentTable table.Model
	viewport    viewport.Model
	ready       bool

	width  int
	height int
}

// NewModel loads history and constructs the stats view. Storage failures
// degrade to an empty report with a visible warning instead of failing.
func NewModel(repo history.Repository, trendWindow, recentN int) *Model {
	m := &Model{repo: repo, trendWindow: trendWindow, recentN: recentN}
	m.loadReport()
	m.recentTable = m.buildRecentTable()
	return m
}

func (m *Model) loadReport() {
	results, err := m.repo.LoadAll(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		results = nil
	}
	m.report = stats.BuildReport(results, m.repo.Skipped(), m.trendWindow, m.recentN)
}

func (m *Model) buildRecentTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Mode", Width: 8},
		{Title: "WPM", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Words", Width: 6},
		{Title: "Errors", Width: 7},
	}
	rows := make([]table.Row, 0, len(m.report.Recent))
	for i := len(m.report.Recent) - 1; i >= 0; i-- {
		r := m.report.Recent[i]
		rows = append(rows, table.Row{
			r.EndedAt.Format("2006-01-02 15:04"),
			string(r.Mode),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%d", r.WordCount),
			fmt.Sprintf("%d", r.ErrorCount),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 12)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3A"))
	t.SetStyles(styles)
	return t
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-1, 1))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-1, 1)
		}
		m.viewport.SetContent(m.content())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.recentTable, cmd = m.recentTable.Update(msg)
			if m.ready {
				m.viewport.SetContent(m.content())
			}
			return m, cmd
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return m.content()
	}
	footer := headerStyle.Render("↑/↓ select · PgUp/PgDn scroll · q quit")
	return m.viewport.View() + "\n" + footer
}

func (m *Model) content() string {
	var sections []string
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	if m.report.Skipped > 0 {
		sections = append(sections, errorStyle.Render(
			fmt.Sprintf("skipped %d corrupt history record(s)", m.report.Skipped)))
	}
	if m.report.Overall.SessionCount == 0 {
		sections = append(sections, "No completed sessions yet. Finish a session to see stats here.")
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, m.renderCards())
	if m.report.Best != nil {
		sections = append(sections, bestStyle.Render(fmt.Sprintf(
			"Best: %.1f WPM · %.1f%% accuracy · %s · %s",
			m.report.Best.WPM, m.report.Best.Accuracy,
			m.report.Best.Mode, m.report.Best.EndedAt.Format("2006-01-02"))))
	}
	if len(m.report.Modes) > 1 {
		sections = append(sections, m.renderModes())
	}
	if len(m.report.Recent) > 0 {
		sections = append(sections,
			headerStyle.Render(fmt.Sprintf("Recent sessions (%d)", len(m.report.Recent))),
			m.recentTable.View())
	}
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderCards() string {
	overall := m.report.Overall
	cards := []string{
		card("Sessions", fmt.Sprintf("%d", overall.SessionCount)),
		card("Avg WPM", fmt.Sprintf("%.1f", overall.AverageWPM)),
		card("Best WPM", fmt.Sprintf("%.1f", overall.BestWPM)),
		card("Avg Accuracy", fmt.Sprintf("%.1f%%", overall.AverageAccuracy)),
		card("Trend", stats.FormatTrend(overall.Trend)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderModes() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("By mode"))
	b.WriteString("\n")
	for _, agg := range m.report.Modes {
		b.WriteString(fmt.Sprintf("%-8s %3d sessions · avg %.1f WPM · best %.1f WPM · %.1f%% · %s\n",
			agg.Mode, agg.Sessions, agg.AverageWPM, agg.BestWPM, agg.AverageAccuracy,
			stats.FormatTrend(agg.Trend)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func card(title, value string) string {
	content := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}
