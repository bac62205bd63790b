package gating

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/model"
)

const aiChapter = `{
  "id": "ai", "title": "AI", "description": "short id", "icon": "A", "order": 1,
  "concepts": [{"id": "ai-1", "term": "Model", "definition": "d", "difficulty": "easy"}],
  "levels": [
    {"id": 1, "name": "One", "concepts": ["ai-1"], "requiredXp": 0, "gameMode": "quiz"},
    {"id": 2, "name": "Two", "concepts": ["ai-1"], "requiredXp": 0, "gameMode": "race"}
  ]
}`

const aiFoundationsChapter = `{
  "id": "ai-foundations", "title": "AI Foundations", "description": "prefixed id", "icon": "F", "order": 2,
  "concepts": [
    {"id": "f-1", "term": "Token", "definition": "d", "difficulty": "easy"},
    {"id": "f-2", "term": "Prompt", "definition": "d", "difficulty": "medium"}
  ],
  "levels": [
    {"id": 1, "name": "One", "concepts": ["f-1"], "requiredXp": 0, "gameMode": "quiz"},
    {"id": 2, "name": "Two", "concepts": ["f-2"], "requiredXp": 0, "gameMode": "quiz"},
    {"id": 3, "name": "Three", "concepts": ["f-1", "f-2"], "requiredXp": 0, "gameMode": "race"}
  ]
}`

func newTestPolicy(t *testing.T) *Policy {
	t.Helper()
	fsys := fstest.MapFS{
		"chapters/ai.json":             {Data: []byte(aiChapter)},
		"chapters/ai-foundations.json": {Data: []byte(aiFoundationsChapter)},
	}
	cat, diags, err := catalog.Load(fsys, "chapters")
	require.NoError(t, err)
	require.Empty(t, diags)
	return New(cat)
}

func progressWith(keys ...model.LevelKey) model.UserProgress {
	return model.UserProgress{Level: 1, CompletedLevels: keys, ConceptScores: map[string]model.ConceptScore{}}
}

func TestLevelOneAlwaysUnlocked(t *testing.T) {
	policy := newTestPolicy(t)
	assert.True(t, policy.IsLevelUnlocked(progressWith(), "ai-foundations", 1))
	assert.False(t, policy.IsLevelUnlocked(progressWith(), "ai-foundations", 0))
}

func TestCompletingLevelUnlocksNext(t *testing.T) {
	policy := newTestPolicy(t)
	before := progressWith()
	for n := 1; n < 3; n++ {
		require.True(t, policy.IsLevelUnlocked(before, "ai-foundations", n))
		assert.False(t, policy.IsLevelUnlocked(before, "ai-foundations", n+1))
		after := progressWith(append(before.Clone().CompletedLevels, model.NewLevelKey("ai-foundations", n))...)
		assert.True(t, policy.IsLevelUnlocked(after, "ai-foundations", n+1))
		before = after
	}
}

func TestLevelsDoNotSkip(t *testing.T) {
	policy := newTestPolicy(t)
	p := progressWith(model.NewLevelKey("ai-foundations", 1))
	assert.False(t, policy.IsLevelUnlocked(p, "ai-foundations", 3))
	assert.False(t, policy.IsLevelUnlocked(p, "ai", 2), "other chapters are unaffected")
}

func TestChapterUnlockFollowsLearnerLevel(t *testing.T) {
	policy := newTestPolicy(t)
	p := progressWith()
	assert.True(t, policy.IsChapterUnlocked(p, 0))
	assert.False(t, policy.IsChapterUnlocked(p, 1))
	p.Level = 10
	assert.False(t, policy.IsChapterUnlocked(p, 1))
	p.Level = 11
	assert.True(t, policy.IsChapterUnlocked(p, 1))
	assert.False(t, policy.IsChapterUnlocked(p, 2))
	assert.False(t, policy.IsChapterUnlocked(p, -1))

	assert.True(t, policy.IsChapterUnlockedByID(p, "ai-foundations"))
	assert.False(t, policy.IsChapterUnlockedByID(p, "missing"))
}

func TestCompletedCountsDoNotLeakAcrossPrefixedIDs(t *testing.T) {
	policy := newTestPolicy(t)
	p := progressWith(
		model.NewLevelKey("ai-foundations", 1),
		model.NewLevelKey("ai-foundations", 2),
		model.NewLevelKey("ai", 1),
	)
	assert.Equal(t, 1, policy.CompletedLevelsForChapter(p, "ai"))
	assert.Equal(t, 2, policy.CompletedLevelsForChapter(p, "ai-foundations"))
	assert.False(t, policy.IsChapterComplete(p, "ai"))
	assert.False(t, policy.IsChapterComplete(p, "ai-foundations"))
}

func TestChapterComplete(t *testing.T) {
	policy := newTestPolicy(t)
	p := progressWith(model.NewLevelKey("ai", 1), model.NewLevelKey("ai", 2))
	assert.True(t, policy.IsChapterComplete(p, "ai"))
	assert.True(t, policy.IsLevelCompleted(p, "ai", 2))
	assert.False(t, policy.IsChapterComplete(p, "missing"))
}

func TestUnlockedConcepts(t *testing.T) {
	policy := newTestPolicy(t)
	assert.Empty(t, policy.UnlockedConcepts(progressWith()))

	concepts := policy.UnlockedConcepts(progressWith(model.NewLevelKey("ai-foundations", 1)))
	ids := make([]string, 0, len(concepts))
	for _, c := range concepts {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"f-1", "f-2"}, ids)
}
