package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typestage/internal/game"
	"github.com/verte-zerg/typestage/internal/handoff"
	"github.com/verte-zerg/typestage/internal/model"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	mistypeStyle     = incorrectStyle.Underline(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	hudStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	hitStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type tickMsg struct {
	tick game.Tick
}

// Model implements the Bubble Tea game screen over a session.
type Model struct {
	session  *game.Session
	exporter *handoff.Exporter

	keys  keyMap
	input textinput.Model
	bar   progress.Model
	help  help.Model

	width  int
	height int

	shownPrompt int
	record      model.ResultRecord
	exported    bool
	err         error
}

// NewModel constructs the game screen. Finished sessions are exported through exporter.
func NewModel(session *game.Session, exporter *handoff.Exporter) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type the prompt, enter to submit"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)

	m := &Model{
		session:  session,
		exporter: exporter,
		keys:     newKeyMap(),
		input:    input,
		bar:      progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
		help:     help.New(),
	}
	session.OnFinish = m.onFinish
	return m
}

// Finished reports whether the session ran to completion.
func (m *Model) Finished() bool {
	return m.session.State() == game.StateFinished
}

// Exported reports whether the finished session was handed off.
func (m *Model) Exported() bool {
	return m.exported
}

// Record returns the exported history record.
func (m *Model) Record() model.ResultRecord {
	return m.record
}

// Err returns the export error, if any.
func (m *Model) Err() error {
	return m.err
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
		m.layout()
		return m, nil
	case tickMsg:
		next, ok := m.session.Tick(msg.tick)
		if cmd := m.afterEvent(); cmd != nil {
			return m, cmd
		}
		if !ok {
			return m, nil
		}
		return m, scheduleTick(next)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter):
		if m.session.State() == game.StateIdle {
			tick, ok := m.session.Start()
			if !ok {
				return m, nil
			}
			m.input.Reset()
			m.shownPrompt = m.session.PromptIndex()
			return m, tea.Batch(m.input.Focus(), scheduleTick(tick))
		}
		m.session.Submit(m.input.Value())
		return m, m.afterEvent()
	case key.Matches(msg, m.keys.Skip):
		m.session.Skip()
		return m, m.afterEvent()
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.input.Reset()
		m.input.Blur()
		m.shownPrompt = 0
		return m, nil
	case key.Matches(msg, m.keys.Difficulty):
		m.session.SetDifficulty(m.session.Difficulty().Next())
		return m, nil
	}
	if !m.session.Running() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// afterEvent clears the input when the prompt advanced and quits once finished.
func (m *Model) afterEvent() tea.Cmd {
	if idx := m.session.PromptIndex(); idx != m.shownPrompt {
		m.shownPrompt = idx
		m.input.Reset()
	}
	if m.Finished() {
		m.input.Blur()
		return tea.Quit
	}
	return nil
}

func (m *Model) onFinish(model.ResultSummary) {
	rec, ok := m.session.Record()
	if !ok || m.exporter == nil {
		return
	}
	saved, err := m.exporter.Export(context.Background(), rec)
	m.record = saved
	if err != nil {
		m.err = err
		logErrf("failed to save result: %v\n", err)
		return
	}
	m.exported = true
}

func (m *Model) layout() {
	width := m.contentWidth()
	m.input.Width = max(10, width-lipgloss.Width(m.input.Prompt)-1)
	m.bar.Width = width
	m.help.Width = width
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(1, int(float64(m.width)*0.70))
}

// View implements tea.Model.
func (m *Model) View() string {
	hud := m.session.HUD()
	m.syncKeys(hud)
	width := m.contentWidth()

	prompt := buildStyledRunes(hud.Prompt, m.input.Value(), hud.State == game.StateRunning)
	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s · %s", hud.StageTitle, hud.Difficulty)),
		renderHUD(hud),
		m.bar.ViewAs(hud.Ratio),
		"",
		lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(prompt, width)),
		"",
		m.input.View(),
		renderFeedback(hud.State, m.session.LastEvent()),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) syncKeys(hud game.HUD) {
	if hud.State == game.StateIdle {
		m.keys.Enter.SetHelp("enter", "start")
	} else {
		m.keys.Enter.SetHelp("enter", "submit")
	}
	m.keys.Enter.SetEnabled(hud.State != game.StateFinished)
	m.keys.Skip.SetEnabled(hud.SkipAvailable)
}

func renderHUD(h game.HUD) string {
	segments := []string{
		fmt.Sprintf("Progress %s", h.Progress),
		fmt.Sprintf("Score %d", h.Score),
		fmt.Sprintf("Accuracy %d%%", h.Accuracy),
		fmt.Sprintf("WPM %d", h.WPM),
		fmt.Sprintf("Misses %d", h.Misses),
		fmt.Sprintf("Combo %d", h.Combo),
		fmt.Sprintf("Time %s", h.Time),
	}
	return hudStyle.Render(strings.Join(segments, "  "))
}

func renderFeedback(state game.State, ev game.Event) string {
	switch ev.Kind {
	case game.EventHit:
		return hitStyle.Render(fmt.Sprintf("Hit %+d · %d WPM", ev.Points, ev.WPM))
	case game.EventMiss:
		return incorrectStyle.Render(fmt.Sprintf("Miss %+d · %d/%d correct", ev.Points, ev.Grade.Correct, ev.Grade.Typed))
	case game.EventTimeUp:
		return incorrectStyle.Render(fmt.Sprintf("Time up %+d", ev.Points))
	case game.EventSkip:
		return footerStyle.Render(fmt.Sprintf("Skipped %+d", ev.Points))
	}
	if state == game.StateIdle {
		return footerStyle.Render("Press enter to start.")
	}
	return ""
}

func scheduleTick(t game.Tick) tea.Cmd {
	return tea.Tick(game.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{tick: t}
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
