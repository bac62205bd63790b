package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
)

type questionMsg session.QuestionDelivery

type explanationMsg session.ExplanationDelivery

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return s
}

// AIQuizModel runs the generated multiple-choice challenge.
type AIQuizModel struct {
	quiz    *session.AIQuiz
	hud     HUD
	spinner spinner.Model

	width  int
	height int

	outcome Outcome
	result  *model.GameResult
}

// NewAIQuizModel wraps q. The first question is fetched from Init.
func NewAIQuizModel(q *session.AIQuiz, hud HUD) *AIQuizModel {
	return &AIQuizModel{quiz: q, hud: hud, spinner: newSpinner()}
}

// Outcome reports how the challenge ended.
func (m *AIQuizModel) Outcome() Outcome {
	return m.outcome
}

// Init implements tea.Model.
func (m *AIQuizModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick(), m.fetch())
}

// fetch runs the pending generation call off the event loop.
func (m *AIQuizModel) fetch() tea.Cmd {
	req, ok := m.quiz.TakeRequest()
	if !ok {
		return nil
	}
	q := m.quiz
	return func() tea.Msg {
		return questionMsg(q.Fetch(req))
	}
}

// Update implements tea.Model.
func (m *AIQuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case questionMsg:
		m.quiz.Deliver(session.QuestionDelivery(msg))
		return m, nil
	case tickMsg:
		m.quiz.Tick()
		m.syncResult()
		return m, tea.Batch(tick(), m.fetch())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *AIQuizModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.quiz.Exit()
		m.outcome = Outcome{Action: ActionAbandon}
		return m, tea.Quit
	}
	key := msg.String()
	switch m.quiz.Status() {
	case session.StatusFinished:
		switch key {
		case "enter", "c":
			if m.result != nil {
				m.outcome = Outcome{Action: ActionContinue, Result: *m.result}
			}
			return m, tea.Quit
		case "r":
			m.quiz.Restart()
			m.result = nil
			return m, m.fetch()
		}
	case session.StatusFailed:
		if key == "r" {
			m.quiz.Retry()
			return m, m.fetch()
		}
	case session.StatusInProgress:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			_, _ = m.quiz.AnswerIndex(int(key[0] - '1'))
		}
	}
	return m, nil
}

func (m *AIQuizModel) syncResult() {
	if m.result != nil || m.quiz.Status() != session.StatusFinished {
		return
	}
	res, err := m.quiz.Result()
	if err == nil {
		m.result = &res
	}
}

// View implements tea.Model.
func (m *AIQuizModel) View() string {
	width := contentWidth(m.width)
	header := titleStyle.Render(fmt.Sprintf("AI Quiz  round %d/%d  score %d", m.quiz.Round(), m.quiz.Rounds(), m.quiz.Score()))
	var body string
	switch m.quiz.Status() {
	case session.StatusFinished:
		if m.result != nil {
			body = renderResult(*m.result, "enter continue  r play again  esc quit")
		}
	case session.StatusLoading:
		body = strings.Join([]string{header, "", m.spinner.View() + " Generating a question about " + m.quiz.Concept().Term + "..."}, "\n")
	case session.StatusFailed:
		body = strings.Join([]string{
			header, "",
			errorStyle.Render(wrapText("Could not generate a question: "+errText(m.quiz.Err()), width)),
			"", footerStyle.Render("r retry  esc quit"),
		}, "\n")
	default:
		body = m.renderQuestion(header, width)
	}
	return place(m.width, m.height, body, renderHUD(model.SessionMetrics{}, m.hud))
}

func (m *AIQuizModel) renderQuestion(header string, width int) string {
	q := m.quiz.Question()
	lines := []string{header, "", promptStyle.Render(wrapText(q.Question, width)), ""}
	revealing := m.quiz.Status() == session.StatusRevealing
	for i, opt := range m.quiz.Options() {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case revealing && opt == q.CorrectAnswer:
			line = successStyle.Render(line + "  ✓")
		case revealing && opt == m.quiz.Selected():
			line = errorStyle.Render(line + "  ✗")
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	if revealing {
		lines = append(lines, footerStyle.Render("Concept: "+m.quiz.Concept().Term))
	} else {
		lines = append(lines, footerStyle.Render("press 1-4 to answer  esc quit"))
	}
	return strings.Join(lines, "\n")
}

// ExplainModel runs the type-then-explain challenge.
type ExplainModel struct {
	explain *session.Explain
	hud     HUD
	spinner spinner.Model

	width  int
	height int

	outcome Outcome
}

// NewExplainModel wraps e.
func NewExplainModel(e *session.Explain, hud HUD) *ExplainModel {
	return &ExplainModel{explain: e, hud: hud, spinner: newSpinner()}
}

// Outcome reports the explored concepts. Leaving always continues so the
// session lands in history.
func (m *ExplainModel) Outcome() Outcome {
	return m.outcome
}

// Init implements tea.Model.
func (m *ExplainModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m *ExplainModel) fetch() tea.Cmd {
	req, ok := m.explain.TakeRequest()
	if !ok {
		return nil
	}
	e := m.explain
	return func() tea.Msg {
		return explanationMsg(e.Fetch(req))
	}
}

// Update implements tea.Model.
func (m *ExplainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case explanationMsg:
		m.explain.Deliver(session.ExplanationDelivery(msg))
		return m, nil
	case tickMsg:
		m.explain.Tick()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ExplainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		res := m.explain.Result()
		m.explain.Exit()
		action := ActionAbandon
		if res.CorrectAnswers > 0 {
			action = ActionContinue
		}
		m.outcome = Outcome{Action: action, Result: res}
		return m, tea.Quit
	}
	switch m.explain.Status() {
	case session.StatusNotStarted, session.StatusInProgress:
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			m.explain.Backspace()
		case tea.KeySpace:
			m.explain.Type(' ')
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.explain.Type(r)
			}
		}
		return m, m.fetch()
	case session.StatusShowing:
		switch msg.String() {
		case "n", "enter":
			m.explain.Next()
		case "t":
			m.explain.Retype()
		}
	case session.StatusFailed:
		switch msg.String() {
		case "r":
			m.explain.Retry()
			return m, m.fetch()
		case "t":
			m.explain.Retype()
		case "n":
			m.explain.Next()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *ExplainModel) View() string {
	width := contentWidth(m.width)
	concept := m.explain.Current()
	header := titleStyle.Render(fmt.Sprintf("Explain  explored %d", m.explain.Explored()))
	lines := []string{header, ""}
	switch m.explain.Status() {
	case session.StatusLoading:
		lines = append(lines, m.spinner.View()+" Asking for an explanation of "+concept.Term+"...")
	case session.StatusFailed:
		lines = append(lines,
			errorStyle.Render(wrapText("Could not load an explanation: "+errText(m.explain.Err()), width)),
			"", footerStyle.Render("r retry  t type again  n next  esc quit"))
	case session.StatusShowing:
		expl := m.explain.Explanation()
		lines = append(lines,
			titleStyle.Render(concept.Term), "",
			"Analogy", promptStyle.Render(wrapText(expl.Analogy, width)), "",
			"Example", promptStyle.Render(wrapText(expl.Example, width)), "",
			"Why it matters", promptStyle.Render(wrapText(expl.WhyItMatters, width)), "",
			footerStyle.Render("n next  t type again  esc quit"))
	default:
		target := []rune(concept.Term)
		input := []rune(m.explain.Input())
		cursor := -1
		if len(input) < len(target) {
			cursor = len(input)
		}
		lines = append(lines,
			promptStyle.Render(wrapText(concept.Definition, width)), "",
			wrapStyledRunes(buildStyledRunes(target, input, cursor), width), "",
			footerStyle.Render("type the term to unlock its explanation  esc quit"))
	}
	return place(m.width, m.height, strings.Join(lines, "\n"), renderHUD(m.explain.Metrics(), m.hud))
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
