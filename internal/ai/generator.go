package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Question is a generated multiple-choice question.
type Question struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	WrongAnswers  []string `json:"wrongAnswers"`
}

// Explanation is a generated plain-language explanation of a concept.
type Explanation struct {
	Analogy      string `json:"analogy"`
	Example      string `json:"example"`
	WhyItMatters string `json:"whyItMatters"`
}

// GenerationConfig selects the model and sampling per task.
type GenerationConfig struct {
	Model            string
	Temperature      float64
	QuizMaxTokens    int
	ExplainMaxTokens int
}

// DefaultGenerationConfig returns gpt-4o-mini at temperature 0.7.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:            "gpt-4o-mini",
		Temperature:      0.7,
		QuizMaxTokens:    500,
		ExplainMaxTokens: 400,
	}
}

// Completer is the chat completion capability.
type Completer interface {
	ChatComplete(ctx context.Context, apiKey string, req ChatRequest) (string, error)
}

// KeySource supplies the stored API key.
type KeySource interface {
	Get() (string, bool, error)
}

// Generator builds prompts and parses structured replies.
type Generator struct {
	completer Completer
	keys      KeySource
	cfg       GenerationConfig
}

// NewGenerator returns a Generator.
func NewGenerator(completer Completer, keys KeySource, cfg GenerationConfig) *Generator {
	return &Generator{completer: completer, keys: keys, cfg: cfg}
}

// GenerateQuestion asks for a question about concept with exactly three
// wrong answers.
func (g *Generator) GenerateQuestion(ctx context.Context, concept model.Concept) (Question, error) {
	apiKey, err := g.apiKey()
	if err != nil {
		return Question{}, err
	}
	text, err := g.completer.ChatComplete(ctx, apiKey, ChatRequest{
		Prompt:      quizPrompt(concept),
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.QuizMaxTokens,
	})
	if err != nil {
		return Question{}, err
	}
	return ExtractJSON(text, validateQuestion)
}

// Explain asks for an analogy, an example and why the concept matters.
func (g *Generator) Explain(ctx context.Context, concept model.Concept) (Explanation, error) {
	apiKey, err := g.apiKey()
	if err != nil {
		return Explanation{}, err
	}
	text, err := g.completer.ChatComplete(ctx, apiKey, ChatRequest{
		Prompt:      explainPrompt(concept),
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.ExplainMaxTokens,
	})
	if err != nil {
		return Explanation{}, err
	}
	return ExtractJSON(text, validateExplanation)
}

func (g *Generator) apiKey() (string, error) {
	key, ok, err := g.keys.Get()
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	if !ok || key == "" {
		return "", ErrNoCredential
	}
	return key, nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question is empty")
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return errors.New("correctAnswer is empty")
	}
	if len(q.WrongAnswers) != 3 {
		return fmt.Errorf("want 3 wrongAnswers, got %d", len(q.WrongAnswers))
	}
	for _, w := range q.WrongAnswers {
		if strings.TrimSpace(w) == "" {
			return errors.New("wrongAnswers contains an empty entry")
		}
	}
	return nil
}

func validateExplanation(e Explanation) error {
	if strings.TrimSpace(e.Analogy) == "" || strings.TrimSpace(e.Example) == "" || strings.TrimSpace(e.WhyItMatters) == "" {
		return errors.New("explanation has empty fields")
	}
	return nil
}

func quizPrompt(c model.Concept) string {
	return fmt.Sprintf(`You are a quiz master for a typing game about AI/software engineering.

Create a multiple-choice question about this concept:
Term: %s
Definition: %s

Requirements:
- Question should test understanding, not just recall
- Provide 1 correct answer and 3 plausible wrong answers
- Keep answers concise (1-2 sentences max)
- Make wrong answers believable but clearly incorrect

Return ONLY valid JSON in this exact format, no markdown:
{"question": "...", "correctAnswer": "...", "wrongAnswers": ["...", "...", "..."]}`, c.Term, c.Definition)
}

func explainPrompt(c model.Concept) string {
	return fmt.Sprintf(`Explain this AI/software engineering concept for a beginner:
Term: %s
Definition: %s

Provide a helpful explanation with:
1. A simple analogy (1-2 sentences) that compares it to something from everyday life
2. A real-world example (1-2 sentences) showing where you'd see this in practice
3. Why it matters (1-2 sentences) for someone learning the field

Keep it concise and use plain language. Avoid jargon.

Return ONLY valid JSON in this exact format, no markdown:
{"analogy": "...", "example": "...", "whyItMatters": "..."}`, c.Term, c.Definition)
}
