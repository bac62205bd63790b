package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typemaster.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestKVRoundTrip(t *testing.T) {
	st := openTestStore(t)

	_, ok, err := st.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set("k", "v1"))
	require.NoError(t, st.Set("k", "v2"))
	v, ok, err := st.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, st.Remove("k"))
	require.NoError(t, st.Remove("k"))
	_, ok, err = st.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typemaster.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Set("k", "kept"))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	v, ok, err := st.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", v)
}

func TestSessionsListAndDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, mode := range []model.Mode{model.ModeRace, model.ModeQuiz, model.ModeQuiz} {
		rec := model.SessionRecord{
			ID:             string(rune('a' + i)),
			Mode:           mode,
			ChapterID:      "c1",
			LevelID:        i + 1,
			XP:             10 * i,
			WPM:            40,
			Accuracy:       90,
			CorrectAnswers: 3,
			TotalQuestions: 4,
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			EndedAt:        base.Add(time.Duration(i)*time.Hour + time.Minute),
		}
		require.NoError(t, st.InsertSession(ctx, rec))
	}

	all, err := st.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, base.Add(time.Minute), all[0].EndedAt)

	quiz, err := st.ListSessions(ctx, SessionFilter{Mode: model.ModeQuiz})
	require.NoError(t, err)
	assert.Len(t, quiz, 2)

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, SessionFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c", recent[0].ID)

	require.NoError(t, st.DeleteSessions(ctx))
	all, err = st.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewKeysPrefixesSiteName(t *testing.T) {
	keys := NewKeys("Type  Master\tPro")
	assert.Equal(t, "type_master_pro_progress", keys.Progress)
	assert.Equal(t, "type_master_pro_last_played", keys.LastPlayed)
	assert.Equal(t, "type_master_pro_muted", keys.Muted)
	assert.Equal(t, "type_master_pro_openai_key", keys.OpenAIKey)
	assert.Len(t, keys.All(), 4)
}

func TestMemoryContract(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("a", "1"))
	v, ok, err := m.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	require.NoError(t, m.Remove("a"))
	assert.Equal(t, 0, m.Len())
}
