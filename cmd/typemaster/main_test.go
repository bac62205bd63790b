package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/gating"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/store"
)

type testEnv struct {
	dir    string
	db     string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "data", "typemaster.db"),
		config: filepath.Join(dir, "config", "config.toml"),
	}
}

func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", e.db, "--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e testEnv) openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(e.db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestChaptersListsUnlockState(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "chapters")
	require.NoError(t, err)

	assert.Contains(t, out, "XP 0  Level 1")
	lines := strings.Split(out, "\n")
	var first, second string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "ai-foundations"):
			first = line
		case strings.Contains(line, "programming-basics"):
			second = line
		}
	}
	assert.True(t, strings.HasSuffix(first, "open"), first)
	assert.True(t, strings.HasSuffix(second, "locked"), second)
}

func TestChaptersShowsLevels(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "chapters", "ai-foundations")
	require.NoError(t, err)
	assert.Contains(t, out, "AI Foundations")
	assert.Contains(t, out, "First Contact")
	assert.Contains(t, out, "Speed Round")

	_, err = env.run(t, "", "chapters", "nope")
	assert.ErrorIs(t, err, errUnknownChapter)
}

func TestResolveLevel(t *testing.T) {
	cat, _, err := catalog.Default()
	require.NoError(t, err)
	policy := gating.New(cat)
	fresh := model.UserProgress{Level: 1, CurrentChapter: cat.FirstChapterID()}

	_, lv, err := resolveLevel(cat, policy, fresh, "ai-foundations", "1")
	require.NoError(t, err)
	assert.Equal(t, "First Contact", lv.Name)

	tests := []struct {
		name    string
		p       model.UserProgress
		chapter string
		level   string
		want    error
	}{
		{"not a number", fresh, "ai-foundations", "abc", errInvalidLevelID},
		{"zero", fresh, "ai-foundations", "0", errInvalidLevelID},
		{"unknown chapter", fresh, "nope", "1", errUnknownChapter},
		{"missing level", fresh, "ai-foundations", "9", errLevelNotFound},
		{"previous level open", fresh, "ai-foundations", "2", errLevelLocked},
		{"chapter gated by level", fresh, "programming-basics", "1", errChapterLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolveLevel(cat, policy, tt.p, tt.chapter, tt.level)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	done := fresh.Clone()
	done.CompletedLevels = []model.LevelKey{model.NewLevelKey("ai-foundations", 1)}
	_, _, err = resolveLevel(cat, policy, done, "ai-foundations", "2")
	assert.NoError(t, err)

	veteran := fresh.Clone()
	veteran.Level = 11
	_, _, err = resolveLevel(cat, policy, veteran, "programming-basics", "1")
	assert.NoError(t, err)
}

func TestPlayRejectsLockedLevel(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "play", "ai-foundations", "3")
	assert.ErrorIs(t, err, errLevelLocked)
}

func TestSoundCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "sound")
	require.NoError(t, err)
	assert.Equal(t, "Sound: on\n", out)

	out, err = env.run(t, "", "sound", "off")
	require.NoError(t, err)
	assert.Equal(t, "Sound: off\n", out)

	out, err = env.run(t, "", "sound", "status")
	require.NoError(t, err)
	assert.Equal(t, "Sound: off\n", out)

	out, err = env.run(t, "", "sound", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "Sound: on\n", out)

	_, err = env.run(t, "", "sound", "loud")
	assert.Error(t, err)
}

func seedSessions(t *testing.T, st *store.Store, n int) {
	t.Helper()
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.InsertSession(context.Background(), model.SessionRecord{
			ID:             string(rune('a' + i)),
			Mode:           model.ModeQuiz,
			ChapterID:      "ai-foundations",
			LevelID:        1,
			XP:             40,
			WPM:            30 + i,
			Accuracy:       90,
			CorrectAnswers: 4,
			TotalQuestions: 4,
			StartedAt:      at,
			EndedAt:        at.Add(time.Minute),
		}))
	}
}

func TestHistoryCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")

	st := env.openStore(t)
	seedSessions(t, st, 3)

	out, err = env.run(t, "", "history", "--mode", "quiz")
	require.NoError(t, err)
	assert.Contains(t, out, "ai-foundations-1")
	assert.Contains(t, out, "Sessions: 3")
	assert.Contains(t, out, "Best WPM: 32")

	out, err = env.run(t, "", "history", "--mode", "race")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")

	_, err = env.run(t, "", "history", "--mode", "bogus")
	assert.Error(t, err)
	_, err = env.run(t, "", "history", "--since", "yesterday")
	assert.Error(t, err)
}

func TestResetClearsProgressAndHistory(t *testing.T) {
	env := newTestEnv(t)
	st := env.openStore(t)
	seedSessions(t, st, 2)

	keys := store.NewKeys("TypeMaster")
	prog := progress.New(st, progress.Options{Keys: keys, FirstChapter: "ai-foundations"})
	_, err := prog.AddXP(250)
	require.NoError(t, err)
	require.NoError(t, st.Set(keys.Muted, "true"))

	out, err := env.run(t, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Equal(t, 250, prog.Get().XP)

	out, err = env.run(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress reset.")

	assert.Equal(t, 0, prog.Get().XP)
	sessions, err := st.ListSessions(context.Background(), store.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	muted, ok, err := st.Get(keys.Muted)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", muted)
}

func TestReviewCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to review yet.")

	st := env.openStore(t)
	prog := progress.New(st, progress.Options{Keys: store.NewKeys("TypeMaster"), FirstChapter: "ai-foundations"})
	_, err = prog.UpdateConceptScores([]model.ConceptOutcome{
		{ConceptID: "token", Correct: false},
		{ConceptID: "model", Correct: true},
	})
	require.NoError(t, err)

	out, err = env.run(t, "", "review", "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Token  (0 correct, 1 missed)")
}

func TestProgressCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "XP: 0")
	assert.Contains(t, out, "Level: 1")
	assert.Contains(t, out, "Current chapter: ai-foundations")
}

func TestKeyCommandsWithoutKey(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "key", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "No API key stored.")

	out, err = env.run(t, "", "key", "remove")
	require.NoError(t, err)
	assert.Contains(t, out, "API key removed.")

	_, err = env.run(t, "\n", "key", "set")
	assert.Error(t, err)
}

func TestChallengeNeedsKey(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "challenge", "quiz")
	assert.ErrorIs(t, err, session.ErrCredentialRequired)

	_, err = env.run(t, "", "challenge", "quiz", "--rounds", "0")
	assert.Error(t, err)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	ok, err := confirm(strings.NewReader("Yes\n"), &out, "sure? ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sure? ", out.String())

	ok, err = confirm(strings.NewReader(""), &out, "sure? ")
	require.NoError(t, err)
	assert.False(t, ok)
}
