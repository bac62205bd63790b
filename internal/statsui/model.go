// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/gating"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabChapters
)

const plotHeight = 10

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
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Deps are the read-only sources the dashboard renders.
type Deps struct {
	History  stats.Lister
	Catalog  *catalog.Catalog
	Policy   *gating.Policy
	Progress func() model.UserProgress
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	deps Deps
	cfg  stats.ReportConfig

	report   stats.Report
	progress model.UserProgress
	errMsg   string

	tabs      []string
	activeTab int
	overview  viewport.Model
	chapters  viewport.Model
	history   table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(deps Deps, cfg stats.ReportConfig) *Model {
	m := &Model{
		deps:     deps,
		cfg:      cfg,
		tabs:     []string{"Overview", "History", "Chapters"},
		overview: viewport.New(0, 0),
		chapters: viewport.New(0, 0),
		history:  newHistoryTable(),
	}
	m.filterInputs = []textinput.Model{
		newFilterInput("Mode (quiz, race, ai-quiz, ai-explain): "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
	m.refresh()
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
		m.renderContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "/":
			m.filterMode = true
			m.filterError = ""
			m.setInputsFromConfig()
			return m, m.setFilterIndex(0)
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabHistory:
			m.history, cmd = m.history.Update(msg)
		case tabChapters:
			m.chapters, cmd = m.chapters.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderFilterSummary(), m.width, headerHeight)
	var body string
	switch {
	case m.filterMode:
		body = m.renderFilterForm()
	case m.activeTab == tabHistory:
		if len(m.report.Sessions) == 0 {
			body = "No sessions found."
		} else {
			body = m.history.View()
		}
	case m.activeTab == tabChapters:
		body = m.chapters.View()
	default:
		body = m.overview.View()
	}
	return strings.Join([]string{header, fitLines(body, m.width, bodyHeight), m.renderFooter()}, "\n")
}

func (m *Model) layoutHeights() (header, body int) {
	header = lipgloss.Height(activeNavStyle.Render("X")) + 1
	body = m.height - header - 1
	if body < 1 {
		body = 1
	}
	return header, body
}

func (m *Model) updateLayout() {
	_, body := m.layoutHeights()
	m.overview.Width, m.overview.Height = m.width, body
	m.chapters.Width, m.chapters.Height = m.width, body
	m.history.SetWidth(m.width)
	m.history.SetHeight(body)
	for i := range m.filterInputs {
		m.filterInputs[i].Width = maxInt(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) refresh() {
	if m.deps.Progress != nil {
		m.progress = m.deps.Progress()
	}
	report, err := stats.BuildReport(context.Background(), m.deps.History, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	m.history.SetRows(historyRows(m.report.Sessions))
	m.history.GotoBottom()
	m.renderContents()
}

func (m *Model) renderContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
	} else {
		m.overview.SetContent(renderOverview(m.report, m.progress, width))
	}
	if m.deps.Catalog == nil || m.deps.Policy == nil {
		return
	}
	var buf bytes.Buffer
	if err := stats.RenderChapterTable(&buf, m.deps.Catalog, m.deps.Policy, m.progress); err != nil {
		m.chapters.SetContent(fmt.Sprintf("Failed to render chapters: %v", err))
		return
	}
	m.chapters.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func renderOverview(r stats.Report, p model.UserProgress, width int) string {
	cards := []string{
		metricCard("XP", fmt.Sprintf("%d", p.XP)),
		metricCard("Level", fmt.Sprintf("%d", p.Level)),
		metricCard("Streak", fmt.Sprintf("%d", p.Streak)),
		metricCard("Sessions", fmt.Sprintf("%d", r.Summary.Sessions)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", r.Summary.AvgWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", r.Summary.AvgAccuracy)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	if r.Summary.Sessions == 0 {
		return summary + "\n\nNo sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, r, width, plotHeight, true); err != nil {
		return summary + fmt.Sprintf("\n\nFailed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newHistoryTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Ended", Width: 16},
			{Title: "Mode", Width: 10},
			{Title: "Level", Width: 22},
			{Title: "Answers", Width: 8},
			{Title: "WPM", Width: 5},
			{Title: "Acc", Width: 5},
			{Title: "XP", Width: 5},
		}),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func historyRows(sessions []model.SessionRecord) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		level := "-"
		if s.ChapterID != "" {
			level = model.NewLevelKey(s.ChapterID, s.LevelID).String()
		}
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			string(s.Mode),
			level,
			fmt.Sprintf("%d/%d", s.CorrectAnswers, s.TotalQuestions),
			strconv.Itoa(s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			strconv.Itoa(s.XP),
		})
	}
	return rows
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

func (m *Model) renderFilterSummary() string {
	mode := string(m.cfg.Filter.Mode)
	if mode == "" {
		mode = "any"
	}
	since := "any"
	if m.cfg.Filter.Since != nil {
		since = m.cfg.Filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: mode=%s  since=%s  last=%s  window=%d", mode, since, last, m.cfg.Window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "  " + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(string(m.cfg.Filter.Mode))
	m.filterInputs[1].SetValue("")
	if m.cfg.Filter.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Filter.Since.Format("2006-01-02"))
	}
	m.filterInputs[2].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.Window))
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseFilter() (stats.ReportConfig, error) {
	cfg := m.cfg
	mode, err := ParseMode(m.filterInputs[0].Value())
	if err != nil {
		return cfg, err
	}
	cfg.Filter.Mode = mode

	cfg.Filter.Since = nil
	if v := strings.TrimSpace(m.filterInputs[1].Value()); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Filter.Since = &parsed
	}

	cfg.Last = 0
	if v := strings.TrimSpace(m.filterInputs[2].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}

	cfg.Window = 1
	if v := strings.TrimSpace(m.filterInputs[3].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.Window = parsed
	}
	return cfg, nil
}

// ParseMode accepts a session mode name; empty means any mode.
func ParseMode(v string) (model.Mode, error) {
	switch mode := model.Mode(strings.TrimSpace(v)); mode {
	case "", model.ModeQuiz, model.ModeRace, model.ModeAIQuiz, model.ModeExplain:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q", v)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
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
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
