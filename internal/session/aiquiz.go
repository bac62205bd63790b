package session

import (
	"context"
	"time"

	"github.com/verte-zerg/typemaster/internal/ai"
	"github.com/verte-zerg/typemaster/internal/generator"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/scoring"
	"github.com/verte-zerg/typemaster/internal/sound"
)

// QuestionSource generates a multiple-choice question for a concept.
type QuestionSource interface {
	GenerateQuestion(ctx context.Context, concept model.Concept) (ai.Question, error)
}

// CredentialChecker is satisfied by *ai.Credentials.
type CredentialChecker interface {
	Check(ctx context.Context, v ai.Validator) (bool, error)
}

// RequireCredential fails with ErrCredentialRequired unless a stored key is
// accepted by v. AI modes call it once on entry.
func RequireCredential(ctx context.Context, creds CredentialChecker, v ai.Validator) error {
	ok, err := creds.Check(ctx, v)
	if err != nil || !ok {
		return ErrCredentialRequired
	}
	return nil
}

// Request is an outstanding generation call. Ticket identifies it so that a
// late reply can be recognised as stale.
type Request struct {
	Ticket  uint64
	Concept model.Concept
}

// AIQuizConfig tunes the AI quiz.
type AIQuizConfig struct {
	Rounds     int
	RevealTime time.Duration
}

// DefaultAIQuizConfig asks 5 questions with a 2 second reveal.
func DefaultAIQuizConfig() AIQuizConfig {
	return AIQuizConfig{Rounds: 5, RevealTime: 2 * time.Second}
}

// QuestionDelivery is the reply to a question Request.
type QuestionDelivery struct {
	Ticket   uint64
	Question ai.Question
	Err      error
}

// AIQuiz asks generated multiple-choice questions about random unlocked concepts.
type AIQuiz struct {
	cfg    AIQuizConfig
	opts   Options
	pool   []model.Concept
	source QuestionSource

	ctx    context.Context
	cancel context.CancelFunc

	status    Status
	round     int
	score     int
	ticket    uint64
	pending   *Request
	concept   model.Concept
	question  ai.Question
	options   []string
	selected  string
	lastErr   error
	outcomes  []model.ConceptOutcome
	revealEnd time.Time
	startedAt time.Time
	endedAt   time.Time
}

// NewAIQuiz prepares a quiz over pool. The first question is requested
// immediately; fetch it with TakeRequest.
func NewAIQuiz(parent context.Context, pool []model.Concept, source QuestionSource, cfg AIQuizConfig, opts Options) (*AIQuiz, error) {
	if len(pool) == 0 {
		return nil, ErrNoConcepts
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultAIQuizConfig().Rounds
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(parent)
	q := &AIQuiz{
		cfg:    cfg,
		opts:   opts,
		pool:   append([]model.Concept(nil), pool...),
		source: source,
		ctx:    ctx,
		cancel: cancel,
	}
	q.Restart()
	return q, nil
}

// Restart begins a fresh run of rounds.
func (q *AIQuiz) Restart() {
	if q.status == StatusExited {
		return
	}
	q.round = 1
	q.score = 0
	q.outcomes = nil
	q.startedAt = q.opts.Now()
	q.endedAt = time.Time{}
	q.load()
}

func (q *AIQuiz) Status() Status { return q.status }
func (q *AIQuiz) Round() int { return q.round }
func (q *AIQuiz) Rounds() int { return q.cfg.Rounds }
func (q *AIQuiz) Score() int { return q.score }
func (q *AIQuiz) Concept() model.Concept { return q.concept }
func (q *AIQuiz) Question() ai.Question { return q.question }
func (q *AIQuiz) Options() []string { return append([]string(nil), q.options...) }
func (q *AIQuiz) Selected() string { return q.selected }
func (q *AIQuiz) Err() error { return q.lastErr }

// TakeRequest hands out the pending generation request once.
func (q *AIQuiz) TakeRequest() (Request, bool) {
	if q.pending == nil {
		return Request{}, false
	}
	req := *q.pending
	q.pending = nil
	return req, true
}

// Fetch performs the generation call for req. It blocks and is meant to run
// off the event loop; the reply goes back through Deliver.
func (q *AIQuiz) Fetch(req Request) QuestionDelivery {
	question, err := q.source.GenerateQuestion(q.ctx, req.Concept)
	return QuestionDelivery{Ticket: req.Ticket, Question: question, Err: err}
}

// Deliver applies a generation reply. Replies for superseded requests or
// arriving after Exit are dropped and Deliver returns false.
func (q *AIQuiz) Deliver(d QuestionDelivery) bool {
	if q.status != StatusLoading || d.Ticket != q.ticket {
		q.opts.Log.Debug("dropped stale question", "ticket", d.Ticket, "current", q.ticket, "status", q.status.String())
		return false
	}
	if d.Err != nil {
		q.lastErr = d.Err
		q.status = StatusFailed
		q.opts.Log.Warn("question generation failed", "concept", q.concept.ID, "err", d.Err)
		return true
	}
	q.question = d.Question
	all := append([]string{d.Question.CorrectAnswer}, d.Question.WrongAnswers...)
	q.options = generator.Shuffled(q.opts.Rand, all)
	q.selected = ""
	q.lastErr = nil
	q.status = StatusInProgress
	return true
}

// Answer scores option by exact match against the correct answer.
func (q *AIQuiz) Answer(option string) (bool, error) {
	if q.status != StatusInProgress {
		return false, ErrNotAnswerable
	}
	correct := option == q.question.CorrectAnswer
	q.selected = option
	q.outcomes = append(q.outcomes, model.ConceptOutcome{ConceptID: q.concept.ID, Correct: correct})
	if correct {
		q.score++
		q.opts.Sound.Play(sound.Correct)
	} else {
		q.opts.Sound.Play(sound.Incorrect)
	}
	q.status = StatusRevealing
	q.revealEnd = q.opts.Now().Add(q.cfg.RevealTime)
	return correct, nil
}

// AnswerIndex answers with the option at i of Options.
func (q *AIQuiz) AnswerIndex(i int) (bool, error) {
	if i < 0 || i >= len(q.options) {
		return false, ErrNotAnswerable
	}
	return q.Answer(q.options[i])
}

// Retry re-requests a question after a failed generation call.
func (q *AIQuiz) Retry() {
	if q.status != StatusFailed {
		return
	}
	q.load()
}

// Tick moves past the answer reveal to the next round or the result.
func (q *AIQuiz) Tick() {
	if q.status != StatusRevealing || q.opts.Now().Before(q.revealEnd) {
		return
	}
	if q.round >= q.cfg.Rounds {
		q.status = StatusFinished
		q.endedAt = q.opts.Now()
		q.opts.Sound.Play(sound.LevelComplete)
		return
	}
	q.round++
	q.load()
}

// Exit abandons the quiz and cancels any in-flight request.
func (q *AIQuiz) Exit() {
	q.status = StatusExited
	q.pending = nil
	q.cancel()
}

// Result returns the scored quiz once every round is answered.
func (q *AIQuiz) Result() (model.GameResult, error) {
	if q.status != StatusFinished {
		return model.GameResult{}, ErrNotFinished
	}
	accuracy := scoring.AIQuizAccuracy(q.score, q.cfg.Rounds)
	return newResult(model.ModeAIQuiz, model.SessionMetrics{Accuracy: accuracy}, q.score, q.cfg.Rounds, q.outcomes, q.startedAt, q.endedAt), nil
}

func (q *AIQuiz) load() {
	concept, _ := generator.Pick(q.opts.Rand, q.pool)
	q.concept = concept
	q.question = ai.Question{}
	q.options = nil
	q.selected = ""
	q.lastErr = nil
	q.ticket++
	q.pending = &Request{Ticket: q.ticket, Concept: concept}
	q.status = StatusLoading
}
