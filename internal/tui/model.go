// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/kana/internal/generator"
	"github.com/verte-zerg/kana/internal/kana"
	"github.com/verte-zerg/kana/internal/madlib"
	"github.com/verte-zerg/kana/internal/model"
	"github.com/verte-zerg/kana/internal/session"
	"github.com/verte-zerg/kana/internal/stats"
	"github.com/verte-zerg/kana/internal/statsui"
	"github.com/verte-zerg/kana/internal/store"
)

const noMatchNotice = "No kana match your filters."

// Model implements the Bubble Tea practice UI.
type Model struct {
	config    model.Config
	catalog   *kana.Catalog
	templates *madlib.Templates
	gen       *generator.Generator
	store     *store.Store
	sess      *session.Session
	sessionID string

	script kana.Script
	groups map[string]bool

	width  int
	height int

	input    textinput.Model
	promptAt time.Time
	outcome  *session.Outcome

	sentence    *madlib.Sentence
	blankInputs []textinput.Model
	blankIndex  int
	graded      []bool
	sentenceRes *session.SentenceResult

	stats   *statsui.Model
	errMsg  string
	warning string
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	glyphStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	sentenceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	blankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice TUI model.
func NewModel(cfg model.Config, cat *kana.Catalog, templates *madlib.Templates, gen *generator.Generator, st *store.Store) *Model {
	script, err := kana.ParseScript(cfg.Script)
	if err != nil {
		script = kana.Hiragana
	}
	if cfg.Mode == "" {
		cfg.Mode = model.ModeCharacters
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = templates.Difficulties()[0]
	}
	m := &Model{
		config:    cfg,
		catalog:   cat,
		templates: templates,
		gen:       gen,
		store:     st,
		sess:      session.New(gen),
		sessionID: uuid.NewString(),
		script:    script,
		groups:    map[string]bool{},
		input:     newAnswerInput("Romaji: "),
	}
	for _, g := range cfg.Groups {
		m.groups[g] = true
	}
	m.sess.SetFocus(cfg.FocusWeak, cfg.WeakTop)
	m.rebuildSet()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mastery returns the current session statistics.
func (m *Model) Mastery() model.Mastery {
	return m.sess.Mastery()
}

// SessionID returns the journal id of the current session.
func (m *Model) SessionID() string {
	return m.sessionID
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, msg.Width/3)
		if m.stats != nil {
			m.stats.Update(msg)
		}
		return m, nil
	case statsui.CloseMsg:
		m.stats = nil
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.stats != nil {
			_, cmd := m.stats.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil
	case "ctrl+n":
		m.next()
		return m, nil
	case "ctrl+r":
		m.reset()
		return m, nil
	case "ctrl+t":
		m.cycleScript()
		return m, nil
	case "f1", "f2", "f3", "f4", "f5":
		m.toggleGroup(int(msg.String()[1] - '1'))
		return m, nil
	case "ctrl+x":
		return m, m.toggleMode()
	case "ctrl+d":
		return m, m.cycleDifficulty()
	case "ctrl+w":
		m.sess.SetFocus(!m.sess.FocusWeak(), m.config.WeakTop)
		m.sess.Skip()
		m.advance()
		return m, nil
	case "ctrl+s":
		m.stats = statsui.NewModel(m.store, m.sessionID, m.sess.Mastery(), m.width, m.height)
		return m, nil
	case "tab":
		if m.config.Mode == model.ModeMadLibs {
			return m, m.setBlankIndex(m.blankIndex + 1)
		}
	case "shift+tab":
		if m.config.Mode == model.ModeMadLibs {
			return m, m.setBlankIndex(m.blankIndex - 1)
		}
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.config.Mode == model.ModeMadLibs {
		if m.blankIndex < len(m.blankInputs) {
			m.blankInputs[m.blankIndex], cmd = m.blankInputs[m.blankIndex].Update(msg)
		}
		return cmd
	}
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.stats != nil {
		return m.stats.View()
	}
	var body string
	if m.config.Mode == model.ModeMadLibs {
		body = m.renderMadLibs()
	} else {
		body = m.renderPractice()
	}
	header := titleStyle.Render("Kana Practice") + "  " + footerStyle.Render(m.renderSettings())
	content := lipgloss.JoinVertical(lipgloss.Center, header, "", body)
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - lipgloss.Height(footer)
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return placed + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderPractice() string {
	if m.warning != "" {
		return warningStyle.Render(m.warning)
	}
	entry, ok := m.sess.Prompt()
	if !ok {
		return warningStyle.Render("No available kana to practice.")
	}
	lines := []string{
		"What is this character?",
		glyphStyle.Render(entry.Glyph),
		m.input.View(),
	}
	if fb := m.renderOutcome(); fb != "" {
		lines = append(lines, fb)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderOutcome() string {
	if m.outcome == nil {
		return ""
	}
	if m.outcome.Correct {
		return correctStyle.Render(fmt.Sprintf("Correct! %s is %q", m.outcome.Glyph, m.outcome.Expected))
	}
	return incorrectStyle.Render(fmt.Sprintf("Incorrect. Answer: %q", m.outcome.Expected))
}

func (m *Model) renderMadLibs() string {
	if m.warning != "" {
		return warningStyle.Render(m.warning)
	}
	if m.sentence == nil {
		return warningStyle.Render("No sentence available.")
	}
	width := int(float64(m.width) * 0.70)
	sentence := wrapStyledRunes(buildSentenceRunes(*m.sentence, m.blankIndex, m.graded), width)
	lines := []string{"Type the kana for each blank:", sentence, ""}
	for _, in := range m.blankInputs {
		lines = append(lines, in.View())
	}
	if m.sentenceRes != nil {
		res := fmt.Sprintf("%d/%d blanks correct", m.sentenceRes.Correct, len(m.sentenceRes.Blanks))
		if m.sentenceRes.AllCorrect() {
			lines = append(lines, correctStyle.Render("Perfect! "+res))
		} else {
			lines = append(lines, incorrectStyle.Render(res))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderSettings() string {
	var groups []string
	for i, g := range m.catalog.Groups() {
		mark := " "
		if m.groups[g] {
			mark = "x"
		}
		groups = append(groups, fmt.Sprintf("F%d[%s]%s", i+1, mark, g))
	}
	parts := []string{m.script.String(), strings.Join(groups, " "), string(m.config.Mode)}
	if m.config.Mode == model.ModeMadLibs {
		parts = append(parts, m.config.Difficulty)
	}
	if m.sess.FocusWeak() {
		parts = append(parts, "focus weak")
	}
	return strings.Join(parts, " · ")
}

func (m *Model) renderFooter() string {
	mastery := m.sess.Mastery()
	segments := []string{
		fmt.Sprintf("Score %d/%d", mastery.Score, mastery.Total),
		fmt.Sprintf("Accuracy %s", stats.FormatAccuracy(mastery)),
		fmt.Sprintf("Streak %d", mastery.Streak),
		fmt.Sprintf("Practiced %d", stats.PracticedCount(mastery)),
		fmt.Sprintf("Needing practice %d", stats.WeakCount(mastery)),
	}
	help := "enter submit · ^n next · ^r reset · ^t script · F1-F3 groups · ^x mode · ^d level · ^w weak · ^s stats"
	lines := []string{footerStyle.Render(strings.Join(segments, "  ")), footerStyle.Render(help)}
	if m.errMsg != "" {
		lines = append(lines, incorrectStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) submit() {
	if m.config.Mode == model.ModeMadLibs {
		m.submitSentence()
		return
	}
	entry, ok := m.sess.Prompt()
	if !ok {
		return
	}
	out, scored, err := m.sess.Submit(m.input.Value())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if !scored {
		return
	}
	m.outcome = &out
	m.journal([]model.Attempt{m.attempt(model.ModeCharacters, entry.Glyph, out)})
	m.input.Reset()
	m.advance()
}

func (m *Model) submitSentence() {
	if m.sentence == nil || m.graded != nil {
		m.newSentence()
		return
	}
	answers := make([]string, len(m.blankInputs))
	for i, in := range m.blankInputs {
		answers[i] = in.Value()
	}
	res, scored, err := m.sess.GradeSentence(*m.sentence, answers)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if !scored {
		m.errMsg = "Fill every blank before grading."
		return
	}
	m.errMsg = ""
	m.sentenceRes = &res
	m.graded = make([]bool, len(res.Blanks))
	attempts := make([]model.Attempt, 0, len(res.Blanks))
	for i, out := range res.Blanks {
		m.graded[i] = out.Correct
		attempts = append(attempts, m.attempt(model.ModeMadLibs, out.Glyph, out))
	}
	m.journal(attempts)
}

func (m *Model) attempt(mode model.Mode, glyph string, out session.Outcome) model.Attempt {
	now := time.Now()
	var latency int64
	if !m.promptAt.IsZero() {
		latency = now.Sub(m.promptAt).Milliseconds()
	}
	return model.Attempt{
		SessionID: m.sessionID,
		At:        now,
		Mode:      mode,
		Glyph:     glyph,
		Expected:  out.Expected,
		Answer:    out.Answer,
		Correct:   out.Correct,
		LatencyMs: latency,
	}
}

func (m *Model) journal(attempts []model.Attempt) {
	if m.store == nil {
		return
	}
	if err := m.store.InsertAttempts(context.Background(), attempts); err != nil {
		m.errMsg = fmt.Sprintf("failed to record answer: %v", err)
		return
	}
	m.errMsg = ""
}

func (m *Model) next() {
	m.outcome = nil
	m.input.Reset()
	m.promptAt = time.Time{}
	if m.config.Mode == model.ModeMadLibs {
		m.newSentence()
		return
	}
	m.sess.Skip()
	m.advance()
}

// advance selects the next prompt when none is outstanding and starts its timer.
func (m *Model) advance() {
	_, had := m.sess.Prompt()
	if _, ok := m.sess.Current(); !ok {
		m.promptAt = time.Time{}
		return
	}
	if !had {
		m.promptAt = time.Now()
	}
}

func (m *Model) reset() {
	if m.store != nil {
		if err := m.store.DeleteSession(context.Background(), m.sessionID); err != nil {
			m.errMsg = fmt.Sprintf("failed to clear journal: %v", err)
		}
	}
	m.sess.Reset()
	m.sessionID = uuid.NewString()
	m.outcome = nil
	m.input.Reset()
	m.promptAt = time.Time{}
	if m.config.Mode == model.ModeMadLibs {
		m.newSentence()
		return
	}
	m.advance()
}

func (m *Model) cycleScript() {
	for i, s := range kana.Scripts {
		if s == m.script {
			m.script = kana.Scripts[(i+1)%len(kana.Scripts)]
			break
		}
	}
	m.rebuildSet()
}

func (m *Model) toggleGroup(idx int) {
	groups := m.catalog.Groups()
	if idx < 0 || idx >= len(groups) {
		return
	}
	m.groups[groups[idx]] = !m.groups[groups[idx]]
	m.rebuildSet()
}

func (m *Model) toggleMode() tea.Cmd {
	m.errMsg = ""
	if m.config.Mode == model.ModeMadLibs {
		m.config.Mode = model.ModeCharacters
		m.promptAt = time.Time{}
		m.sess.Skip()
		m.advance()
		return m.input.Focus()
	}
	m.config.Mode = model.ModeMadLibs
	m.input.Blur()
	return m.newSentence()
}

func (m *Model) cycleDifficulty() tea.Cmd {
	if m.config.Mode != model.ModeMadLibs {
		return nil
	}
	diffs := m.templates.Difficulties()
	next := diffs[0]
	for i, d := range diffs {
		if d == m.config.Difficulty {
			next = diffs[(i+1)%len(diffs)]
			break
		}
	}
	m.config.Difficulty = next
	return m.newSentence()
}

func (m *Model) selectedGroups() []string {
	var out []string
	for _, g := range m.catalog.Groups() {
		if m.groups[g] {
			out = append(out, g)
		}
	}
	return out
}

func (m *Model) rebuildSet() {
	set := m.catalog.Filter(m.script, m.selectedGroups())
	m.sess.SetPracticeSet(set)
	m.warning = ""
	if set.IsEmpty() {
		m.warning = noMatchNotice
	}
	if m.config.Mode == model.ModeMadLibs {
		m.newSentence()
	} else {
		m.advance()
		m.input.Focus()
	}
}

func (m *Model) newSentence() tea.Cmd {
	m.sentence = nil
	m.blankInputs = nil
	m.blankIndex = 0
	m.graded = nil
	m.sentenceRes = nil
	set := m.sess.PracticeSet()
	if set.IsEmpty() {
		return nil
	}
	tpl, err := m.templates.Pick(m.config.Difficulty, m.gen.Intn)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	blanks := m.gen.Sample(set, m.templates.BlankCount(tpl))
	sentence, err := madlib.NewSentence(tpl, m.templates.Marker, blanks)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.sentence = &sentence
	m.blankInputs = make([]textinput.Model, len(blanks))
	for i := range blanks {
		m.blankInputs[i] = newAnswerInput(fmt.Sprintf("Blank %d: ", i+1))
	}
	m.promptAt = time.Now()
	return m.setBlankIndex(0)
}

func (m *Model) setBlankIndex(idx int) tea.Cmd {
	count := len(m.blankInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.blankIndex = idx
	var cmd tea.Cmd
	for i := range m.blankInputs {
		if i == m.blankIndex {
			cmd = m.blankInputs[i].Focus()
		} else {
			m.blankInputs[i].Blur()
		}
	}
	return cmd
}

func newAnswerInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 32
	input.Width = 20
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return input
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
