package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestSelectOrdersStalestWeakFirst(t *testing.T) {
	scores := map[string]model.ConceptScore{
		"A": {Correct: 1, Incorrect: 3, LastSeen: 100},
		"B": {Correct: 0, Incorrect: 2, LastSeen: 50},
		"C": {Correct: 5, Incorrect: 1, LastSeen: 10},
	}
	assert.Equal(t, []string{"B", "A"}, Select(scores, 5))
}

func TestSelectExcludesEvenScores(t *testing.T) {
	scores := map[string]model.ConceptScore{
		"A": {Correct: 2, Incorrect: 2, LastSeen: 1},
	}
	assert.Empty(t, Select(scores, 5))
	assert.Empty(t, Select(nil, 5))
}

func TestSelectTruncatesAndDefaultsLimit(t *testing.T) {
	scores := map[string]model.ConceptScore{}
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		scores[id] = model.ConceptScore{Incorrect: 1, LastSeen: int64(i)}
	}
	assert.Equal(t, []string{"a", "b"}, Select(scores, 2))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, Select(scores, 0))
}

func TestSelectBreaksTiesByID(t *testing.T) {
	scores := map[string]model.ConceptScore{
		"z": {Incorrect: 1, LastSeen: 7},
		"m": {Incorrect: 1, LastSeen: 7},
	}
	assert.Equal(t, []string{"m", "z"}, Select(scores, 5))
}
