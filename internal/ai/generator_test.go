package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/store"
)

type stubCompleter struct {
	text string
	err  error
	last ChatRequest
	key  string
}

func (s *stubCompleter) ChatComplete(_ context.Context, apiKey string, req ChatRequest) (string, error) {
	s.key = apiKey
	s.last = req
	return s.text, s.err
}

type stubValidator struct {
	accept string
}

func (v stubValidator) ValidateCredential(_ context.Context, apiKey string) bool {
	return apiKey == v.accept
}

var tokenConcept = model.Concept{ID: "tok", Term: "Token", Definition: "A unit of text a model reads."}

func newCreds(t *testing.T, key string) *Credentials {
	t.Helper()
	creds := NewCredentials(store.NewMemory(), "typemaster_openai_key")
	if key != "" {
		require.NoError(t, creds.Save(key))
	}
	return creds
}

func TestGenerateQuestion_ParsesFencedJSON(t *testing.T) {
	stub := &stubCompleter{text: "```json\n{\"question\":\"What is a token?\",\"correctAnswer\":\"A unit of text\",\"wrongAnswers\":[\"A coin\",\"A password\",\"A pixel\"]}\n```"}
	gen := NewGenerator(stub, newCreds(t, "sk-1"), DefaultGenerationConfig())

	q, err := gen.GenerateQuestion(context.Background(), tokenConcept)
	require.NoError(t, err)
	assert.Equal(t, "What is a token?", q.Question)
	assert.Equal(t, "A unit of text", q.CorrectAnswer)
	assert.Len(t, q.WrongAnswers, 3)

	assert.Equal(t, "sk-1", stub.key)
	assert.Equal(t, 500, stub.last.MaxTokens)
	assert.Equal(t, "gpt-4o-mini", stub.last.Model)
	assert.Contains(t, stub.last.Prompt, "Term: Token")
}

func TestGenerateQuestion_RejectsWrongShape(t *testing.T) {
	stub := &stubCompleter{text: `{"question":"q","correctAnswer":"a","wrongAnswers":["b"]}`}
	gen := NewGenerator(stub, newCreds(t, "sk-1"), DefaultGenerationConfig())
	_, err := gen.GenerateQuestion(context.Background(), tokenConcept)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestGenerateQuestion_MalformedJSON(t *testing.T) {
	stub := &stubCompleter{text: "Sorry, I cannot help with that."}
	gen := NewGenerator(stub, newCreds(t, "sk-1"), DefaultGenerationConfig())
	_, err := gen.GenerateQuestion(context.Background(), tokenConcept)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestGenerateQuestion_NoCredential(t *testing.T) {
	stub := &stubCompleter{}
	gen := NewGenerator(stub, newCreds(t, ""), DefaultGenerationConfig())
	_, err := gen.GenerateQuestion(context.Background(), tokenConcept)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestExplain(t *testing.T) {
	stub := &stubCompleter{text: `Here you go: {"analogy":"Like words","example":"Chat apps","whyItMatters":"Billing"}`}
	gen := NewGenerator(stub, newCreds(t, "sk-1"), DefaultGenerationConfig())
	e, err := gen.Explain(context.Background(), tokenConcept)
	require.NoError(t, err)
	assert.Equal(t, Explanation{Analogy: "Like words", Example: "Chat apps", WhyItMatters: "Billing"}, e)
	assert.Equal(t, 400, stub.last.MaxTokens)
}

func TestExplain_PropagatesServiceError(t *testing.T) {
	stub := &stubCompleter{err: &HTTPError{StatusCode: 500}}
	gen := NewGenerator(stub, newCreds(t, "sk-1"), DefaultGenerationConfig())
	_, err := gen.Explain(context.Background(), tokenConcept)
	var httpErr *HTTPError
	assert.True(t, errors.As(err, &httpErr))
}

func TestExtractJSON_NestedBracesInStrings(t *testing.T) {
	type out struct {
		A string `json:"a"`
	}
	v, err := ExtractJSON[out]("prefix {\"a\":\"x } y\"} suffix", nil)
	require.NoError(t, err)
	assert.Equal(t, "x } y", v.A)
}

func TestCredentials(t *testing.T) {
	creds := newCreds(t, "")
	_, ok, err := creds.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	err = creds.SaveValidated(context.Background(), stubValidator{accept: "sk-good"}, "sk-bad")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, ok, _ = creds.Get()
	assert.False(t, ok)

	require.NoError(t, creds.SaveValidated(context.Background(), stubValidator{accept: "sk-good"}, "  sk-good \n"))
	key, ok, err := creds.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk-good", key)

	valid, err := creds.Check(context.Background(), stubValidator{accept: "sk-good"})
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, creds.Remove())
	_, err = creds.Check(context.Background(), stubValidator{})
	assert.ErrorIs(t, err, ErrNoCredential)
}
