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

	"github.com/verte-zerg/kana/internal/model"
	"github.com/verte-zerg/kana/internal/stats"
	"github.com/verte-zerg/kana/internal/store"
)

const (
	tabOverview = iota
	tabCharTable
)

const topWeakCount = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
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

// CloseMsg asks the parent model to leave the stats view.
type CloseMsg struct{}

// Model implements the Bubble Tea stats UI for the running session.
type Model struct {
	store     *store.Store
	sessionID string
	mastery   model.Mastery
	window    int

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model over a mastery snapshot and the
// journal of sessionID.
func NewModel(st *store.Store, sessionID string, mastery model.Mastery, width, height int) *Model {
	m := &Model{
		store:     st,
		sessionID: sessionID,
		mastery:   mastery,
		window:    stats.DefaultCurveWindow,
		tabs:      []string{"Overview", "Kana Table"},
		overview:  viewport.New(0, 0),
		charTable: buildCharTable(nil, 0, 1),
		width:     width,
		height:    height,
	}
	m.refreshReport()
	m.updateLayout()
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
		case "esc", "q", "ctrl+s":
			return m, func() tea.Msg { return CloseMsg{} }
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "=":
			m.window++
			m.refreshReport()
			return m, nil
		case "-":
			if m.window > 1 {
				m.window--
				m.refreshReport()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabCharTable {
			m.charTable, cmd = m.charTable.Update(msg)
			return m, cmd
		}
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(maxInt(1, bodyHeight-1))
	m.overview.SetContent(renderOverview(m.mastery, m.report, m.width))
}

func (m *Model) moveTab(delta int) {
	next := m.activeTab + delta
	if next < 0 {
		next = len(m.tabs) - 1
	}
	if next >= len(m.tabs) {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabCharTable {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.sessionID, m.window)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	_, bodyHeight, _ := m.layoutHeights()
	m.charTable = buildCharTable(report.CharAggs, m.width, bodyHeight)
	if m.activeTab == tabCharTable {
		m.charTable.Focus()
	}
	m.overview.SetContent(renderOverview(m.mastery, m.report, maxInt(m.width, 80)))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabCharTable {
		if len(m.report.CharAggs) == 0 {
			return "No answers recorded."
		}
		return tableMutedStyle.Render(m.charTable.View())
	}
	return m.overview.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render(fmt.Sprintf("Nav: left/right  Scroll: up/down  Window (%d): -/=  Back: esc", m.window))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func renderOverview(mastery model.Mastery, report stats.Report, width int) string {
	cards := []string{
		metricCard("Score", fmt.Sprintf("%d/%d", mastery.Score, mastery.Total)),
		metricCard("Accuracy", stats.FormatAccuracy(mastery)),
		metricCard("Streak", fmt.Sprintf("%d", mastery.Streak)),
		metricCard("Practiced", fmt.Sprintf("%d", stats.PracticedCount(mastery))),
		metricCard("Needing practice", fmt.Sprintf("%d", stats.WeakCount(mastery))),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{summary, "", "Top weak kana"}
	weak := stats.TopWeak(mastery, topWeakCount)
	if len(weak) == 0 {
		lines = append(lines, headerStyle.Render("  none"))
	}
	for _, w := range weak {
		lines = append(lines, fmt.Sprintf("  %s  %d", w.Glyph, w.Misses))
	}
	lines = append(lines, "", "Rolling accuracy")
	if len(report.Curve) == 0 {
		lines = append(lines, headerStyle.Render("  no answers yet"))
	} else {
		curve := report.Curve
		if maxLen := width - 4; maxLen > 0 && len(curve) > maxLen {
			curve = curve[len(curve)-maxLen:]
		}
		lines = append(lines, "  "+stats.Sparkline(curve))
		lines = append(lines, headerStyle.Render(fmt.Sprintf("  last %.1f%%", report.Curve[len(report.Curve)-1])))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildCharTable(aggs []model.CharAggregate, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Kana", Width: 4},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Latency (ms)", Width: 17},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, r := range stats.CharRows(aggs) {
		rows = append(rows, table.Row{
			r.Char,
			fmt.Sprintf("%.2f%%", r.Accuracy),
			fmt.Sprintf("%.1f", r.LatencyMs),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(charTableStyles())
	return t
}

func charTableStyles() table.Styles {
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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
