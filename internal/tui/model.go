package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/termtypr/termtypr/internal/engine"
	"github.com/termtypr/termtypr/internal/generator"
	"github.com/termtypr/termtypr/internal/history"
	"github.com/termtypr/termtypr/internal/model"
	statsPkg "github.com/termtypr/termtypr/internal/stats"
	"github.com/termtypr/termtypr/internal/words"
)

const pollInterval = 300 * time.Millisecond

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	skippedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	recordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
)

// liveMsg carries a poller tick into the Bubble Tea loop.
type liveMsg model.LiveStats

// Model implements the Bubble Tea typing UI around a session engine.
type Model struct {
	prefs  model.Preferences
	mode   model.Mode
	repo   history.Repository
	gen    *generator.Generator
	source *words.Storage
	logger *log.Logger

	engine *engine.Engine
	liveCh chan model.LiveStats

	width  int
	height int

	live       model.LiveStats
	best       *model.GameResult
	last       *model.GameResult
	lastRecord bool
	notice     string
}

// NewModel constructs the typing UI and starts the first session.
func NewModel(prefs model.Preferences, mode model.Mode, repo history.Repository, gen *generator.Generator, source *words.Storage, logger *log.Logger) (*Model, error) {
	if logger == nil {
		logger = log.Default()
	}
	m := &Model{
		prefs:  prefs,
		mode:   mode,
		repo:   repo,
		gen:    gen,
		source: source,
		logger: logger,
		liveCh: make(chan model.LiveStats, 1),
	}
	m.loadBest()
	if err := m.startSession(""); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForLive()
}

func (m *Model) waitForLive() tea.Cmd {
	return func() tea.Msg {
		return liveMsg(<-m.liveCh)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case liveMsg:
		m.live = model.LiveStats(msg)
		return m, m.waitForLive()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			// Cancelled sessions are never recorded; the poller stops
			// as part of the same transition.
			if err := m.engine.Cancel(); err != nil {
				m.engine.StopPolling()
			}
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.restart(m.engine.State().Target)
			return m, nil
		case tea.KeyTab:
			m.restart("")
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete:
			// Marks are final at time of entry.
			return m, nil
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
			return m, nil
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if _, err := m.engine.ProcessKeystroke(r); err != nil {
			m.logger.Warn("keystroke rejected", "err", err)
			return
		}
		if m.engine.IsComplete() {
			m.finishSession()
			return
		}
	}
}

// restart cancels the active session and begins a new one, with the same
// target when one is given.
func (m *Model) restart(target string) {
	if err := m.engine.Cancel(); err != nil {
		m.engine.StopPolling()
	}
	if err := m.startSession(target); err != nil {
		m.notice = fmt.Sprintf("failed to start session: %v", err)
	}
}

func (m *Model) startSession(target string) error {
	if target == "" {
		t, err := m.nextTarget()
		if err != nil {
			return err
		}
		target = t
	}
	eng := engine.New(engine.SystemClock(), engine.PolicyFor(m.prefs))
	if err := eng.Start(m.mode, target); err != nil {
		return err
	}
	m.engine = eng
	m.live = model.LiveStats{Accuracy: 100, Total: len([]rune(target))}
	eng.StartPolling(pollInterval, func(s model.LiveStats) {
		// Drop ticks the UI has not consumed yet; never block the poller.
		select {
		case m.liveCh <- s:
		default:
		}
	})
	return nil
}

func (m *Model) nextTarget() (string, error) {
	switch m.mode {
	case model.ModePhrase:
		phrases, err := m.source.Phrases()
		if err != nil {
			return "", err
		}
		return m.gen.PhraseTarget(phrases), nil
	default:
		pool, err := m.source.Words()
		if err != nil {
			return "", err
		}
		return m.gen.WordsTarget(pool, m.prefs.WordCount), nil
	}
}

func (m *Model) finishSession() {
	result, err := m.engine.Finish()
	if err != nil {
		m.logger.Warn("failed to finish session", "err", err)
		return
	}

	ctx := context.Background()
	best, err := m.repo.FindBest(ctx, &m.mode)
	if err != nil {
		m.logger.Warn("failed to load best result", "err", err)
	}
	isRecord := statsPkg.IsNewBest(result.WPM, best)

	if err := m.repo.Save(ctx, result); err != nil {
		m.logger.Warn("failed to save session", "err", err)
		m.notice = "warning: result could not be saved"
	}

	m.last = &result
	m.lastRecord = isRecord
	if isRecord {
		m.best = &result
	} else if best != nil {
		m.best = best
	}

	if err := m.startSession(""); err != nil {
		m.notice = fmt.Sprintf("failed to start session: %v", err)
	}
}

func (m *Model) loadBest() {
	best, err := m.repo.FindBest(context.Background(), &m.mode)
	if err != nil {
		m.logger.Warn("failed to load best result", "err", err)
		return
	}
	m.best = best
}

// View implements tea.Model.
func (m *Model) View() string {
	state := m.engine.State()
	targetRunes := []rune(state.Target)
	if len(targetRunes) == 0 {
		return ""
	}
	cursorIndex := -1
	if state.Position < len(targetRunes) {
		cursorIndex = state.Position
	}
	styledRunes := buildStyledRunes(targetRunes, state.Typed, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	progress := 0
	if m.live.Total > 0 {
		progress = m.live.Typed * 100 / m.live.Total
	}
	segments := []string{
		fmt.Sprintf("%.1f WPM · %.1f%%", m.live.WPM, m.live.Accuracy),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if m.best != nil {
		segments = append(segments, fmt.Sprintf("Best %.1f WPM", m.best.WPM))
	}
	if m.last != nil {
		lastSeg := fmt.Sprintf("Last %.1f WPM · %.1f%%", m.last.WPM, m.last.Accuracy)
		if m.lastRecord {
			lastSeg += " " + recordStyle.Render("NEW RECORD")
		}
		segments = append(segments, lastSeg)
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
