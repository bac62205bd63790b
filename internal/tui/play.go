package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

const tickInterval = 100 * time.Millisecond

// Action is how the learner left a screen.
type Action int

// Screen exits.
const (
	ActionAbandon Action = iota
	ActionContinue
)

// Outcome is read by the caller after the program exits.
type Outcome struct {
	Action Action
	Result model.GameResult
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// level is the shared surface of the quiz and race loops.
type level interface {
	Status() session.Status
	Current() model.Concept
	Input() string
	Metrics() model.SessionMetrics
	CorrectAnswers() int
	Remaining() time.Duration
	Type(r rune)
	Backspace()
	Tick()
	Retry()
	Result() (model.GameResult, error)
}

// HUD is the learner state shown in the footer.
type HUD struct {
	XP     int
	Level  int
	Streak int
	Muted  bool
}

// PlayModel runs one quiz or race level.
type PlayModel struct {
	title string
	game  level
	hud   HUD
	bar   progress.Model

	width  int
	height int

	outcome Outcome
	result  *model.GameResult
}

// NewQuizModel builds the screen for a quiz level.
func NewQuizModel(title string, q *session.Quiz, hud HUD) *PlayModel {
	return newPlayModel(title, q, hud)
}

// NewRaceModel builds the screen for a race level.
func NewRaceModel(title string, r *session.Race, hud HUD) *PlayModel {
	return newPlayModel(title, r, hud)
}

func newPlayModel(title string, game level, hud HUD) *PlayModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	return &PlayModel{title: title, game: game, hud: hud, bar: bar}
}

// Outcome reports how the level ended.
func (m *PlayModel) Outcome() Outcome {
	return m.outcome
}

// Init implements tea.Model.
func (m *PlayModel) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = clampWidth(contentWidth(msg.Width), 10, 60)
		return m, nil
	case tickMsg:
		m.game.Tick()
		m.syncResult()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.outcome = Outcome{Action: ActionAbandon}
		return m, tea.Quit
	}
	if m.result != nil {
		switch msg.String() {
		case "enter", "c":
			m.outcome = Outcome{Action: ActionContinue, Result: *m.result}
			return m, tea.Quit
		case "r":
			m.game.Retry()
			m.result = nil
		}
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.game.Backspace()
	case tea.KeySpace:
		m.game.Type(' ')
	case tea.KeyTab:
		if race, ok := m.game.(*session.Race); ok {
			race.Skip()
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.game.Type(r)
		}
	}
	m.syncResult()
	return m, nil
}

func (m *PlayModel) syncResult() {
	if m.result != nil || m.game.Status() != session.StatusFinished {
		return
	}
	res, err := m.game.Result()
	if err == nil {
		m.result = &res
	}
}

// View implements tea.Model.
func (m *PlayModel) View() string {
	width := contentWidth(m.width)
	var body string
	if m.result != nil {
		body = renderResult(*m.result, "enter continue  r retry  esc quit")
	} else {
		body = m.renderPlay(width)
	}
	return place(m.width, m.height, body, m.renderFooter())
}

func (m *PlayModel) renderPlay(width int) string {
	concept := m.game.Current()
	target := []rune(concept.Term)
	input := []rune(m.game.Input())
	cursor := -1
	if len(input) < len(target) {
		cursor = len(input)
	}

	lines := []string{titleStyle.Render(m.title), ""}
	lines = append(lines, promptStyle.Render(wrapText(concept.Definition, width)), "")

	switch m.game.Status() {
	case session.StatusRevealing:
		lines = append(lines, warnStyle.Render("Time's up! The answer was: "+concept.Term))
	case session.StatusAdvancing:
		lines = append(lines, successStyle.Render("✓ "+concept.Term))
	default:
		lines = append(lines, wrapStyledRunes(buildStyledRunes(target, input, cursor), width))
	}
	lines = append(lines, "", m.renderTimer())

	hint := "type the term  esc quit"
	switch g := m.game.(type) {
	case *session.Quiz:
		lines = append(lines, footerStyle.Render(fmt.Sprintf("Question %d/%d", g.Index()+1, g.Total())))
	case *session.Race:
		lines = append(lines, footerStyle.Render(fmt.Sprintf("Solved %d  Skipped %d", g.CorrectAnswers(), g.Skipped())))
		hint = "type the term  tab skip  esc quit"
	}
	lines = append(lines, footerStyle.Render(hint))
	return strings.Join(lines, "\n")
}

func (m *PlayModel) renderTimer() string {
	remaining := m.game.Remaining()
	var total time.Duration
	switch g := m.game.(type) {
	case *session.Quiz:
		total = g.QuestionTime()
	case *session.Race:
		total = g.Duration()
	}
	pct := 0.0
	if total > 0 {
		pct = float64(remaining) / float64(total)
	}
	label := fmt.Sprintf(" %ds", int(remaining.Round(time.Second)/time.Second))
	if remaining <= session.WarnThreshold && m.game.Status() == session.StatusInProgress {
		label = warnStyle.Render(label)
	}
	return m.bar.ViewAs(pct) + label
}

func (m *PlayModel) renderFooter() string {
	return renderHUD(m.game.Metrics(), m.hud)
}

func renderHUD(metrics model.SessionMetrics, hud HUD) string {
	segments := []string{
		fmt.Sprintf("WPM %d", metrics.WPM),
		fmt.Sprintf("Acc %d%%", metrics.Accuracy),
		fmt.Sprintf("XP %d", hud.XP),
		fmt.Sprintf("Lv %d", hud.Level),
	}
	if hud.Streak > 0 {
		segments = append(segments, fmt.Sprintf("Streak %d", hud.Streak))
	}
	if hud.Muted {
		segments = append(segments, "muted")
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func renderResult(res model.GameResult, help string) string {
	lines := []string{
		titleStyle.Render(res.Title),
		"",
		fmt.Sprintf("Correct   %d/%d", res.CorrectAnswers, res.TotalQuestions),
		fmt.Sprintf("Accuracy  %d%%", res.Accuracy),
	}
	if res.WPM > 0 {
		lines = append(lines, fmt.Sprintf("WPM       %d", res.WPM))
	}
	if res.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("Skipped   %d", res.Skipped))
	}
	lines = append(lines, successStyle.Render(fmt.Sprintf("+%d XP", res.XP)), "", footerStyle.Render(help))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func place(width, height int, body, footer string) string {
	if width == 0 || height == 0 {
		return body + "\n" + footer
	}
	if height < 3 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	}
	top := lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, body)
	return top + "\n" + lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func clampWidth(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
