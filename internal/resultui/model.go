// Package resultui provides the Bubble Tea results view.
package resultui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typestage/internal/model"
)

const recentLimit = 10

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// HistoryReader lists stored results.
type HistoryReader interface {
	ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.ResultRecord, error)
}

// Model implements the Bubble Tea results view.
type Model struct {
	history HistoryReader
	summary model.ResultSummary
	stageID string

	recent []model.ResultRecord
	errMsg string
	table  table.Model

	width  int
	height int
}

// NewModel constructs a results view for summary. When history is set, recent results
// of stageID are listed under the cards.
func NewModel(history HistoryReader, summary model.ResultSummary, stageID string) *Model {
	m := &Model{
		history: history,
		summary: summary,
		stageID: stageID,
	}
	m.refreshRecent()
	return m
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
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc", "enter":
			return m, tea.Quit
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render("Result"),
		renderCards(m.summary, m.width),
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	} else if len(m.recent) > 0 {
		sections = append(sections,
			headerStyle.Render(fmt.Sprintf("Recent results (%s)", m.stageID)),
			tableMutedStyle.Render(m.table.View()),
		)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	help := headerStyle.Render("Scroll: up/down  Quit: q/enter")
	if m.width == 0 || m.height == 0 {
		return body + "\n" + help
	}
	bodyHeight := max(1, m.height-1)
	return fitLines(body, m.width, bodyHeight) + "\n" + fitLines(truncateLine(help, m.width), m.width, 1)
}

func (m *Model) refreshRecent() {
	m.recent = nil
	m.errMsg = ""
	if m.history != nil && m.stageID != "" {
		results, err := m.history.ListResults(context.Background(), model.HistoryConfig{Stage: m.stageID})
		if err != nil {
			m.errMsg = fmt.Sprintf("Failed to load history: %v", err)
		} else {
			m.recent = latestFirst(results, recentLimit)
		}
	}
	m.table = buildRecentTable(m.recent, 80, len(m.recent)+1)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	used := lipgloss.Height(titleStyle.Render("Result")) + lipgloss.Height(renderCards(m.summary, m.width)) + 2
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, min(len(m.recent)+1, m.height-used-1)))
}

func renderCards(s model.ResultSummary, width int) string {
	cards := []string{
		metricCard("Stage", s.Stage),
		metricCard("Progress", s.Progress),
		metricCard("Score", fmt.Sprintf("%d", s.Score)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", s.Accuracy)),
		metricCard("WPM", fmt.Sprintf("%d", s.WPM)),
		metricCard("Misses", fmt.Sprintf("%d", s.Misses)),
		metricCard("Max Combo", fmt.Sprintf("%d", s.MaxCombo)),
		metricCard("Time Left", s.TimeLeft),
	}
	perRow := 4
	if width > 0 && width < 80 {
		perRow = 2
	}
	rows := make([]string, 0, (len(cards)+perRow-1)/perRow)
	for i := 0; i < len(cards); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:min(i+perRow, len(cards))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildRecentTable(results []model.ResultRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Finished", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Progress", Width: 9},
		{Title: "Score", Width: 6},
		{Title: "Acc", Width: 5},
		{Title: "WPM", Width: 5},
		{Title: "Misses", Width: 6},
		{Title: "Combo", Width: 6},
	}
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, table.Row{
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			r.Difficulty,
			r.Summary.Progress,
			fmt.Sprintf("%d", r.Summary.Score),
			fmt.Sprintf("%d%%", r.Summary.Accuracy),
			fmt.Sprintf("%d", r.Summary.WPM),
			fmt.Sprintf("%d", r.Summary.Misses),
			fmt.Sprintf("%d", r.Summary.MaxCombo),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// latestFirst returns up to limit results, newest first.
func latestFirst(results []model.ResultRecord, limit int) []model.ResultRecord {
	out := make([]model.ResultRecord, 0, min(len(results), limit))
	for i := len(results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, results[i])
	}
	return out
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
