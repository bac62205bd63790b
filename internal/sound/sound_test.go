package sound

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/store"
)

func TestPrefsRoundTrip(t *testing.T) {
	kv := store.NewMemory()
	prefs := NewPrefs(kv, "tm_muted", nil)
	assert.False(t, prefs.Muted())

	require.NoError(t, prefs.SetMuted(true))
	raw, _, _ := kv.Get("tm_muted")
	assert.Equal(t, "true", raw)
	assert.True(t, prefs.Muted())

	muted, err := prefs.Toggle()
	require.NoError(t, err)
	assert.False(t, muted)
	assert.False(t, prefs.Muted())
}

func TestPrefsIgnoresGarbage(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set("tm_muted", "maybe"))
	assert.False(t, NewPrefs(kv, "tm_muted", nil).Muted())
}

func TestBellRespectsMuteAndSkipsKeypress(t *testing.T) {
	kv := store.NewMemory()
	prefs := NewPrefs(kv, "tm_muted", nil)
	var buf bytes.Buffer
	bell := NewBell(&buf, prefs)

	bell.Play(Keypress)
	assert.Equal(t, "", buf.String())
	bell.Play(Correct)
	assert.Equal(t, "\a", buf.String())

	require.NoError(t, prefs.SetMuted(true))
	bell.Play(LevelComplete)
	assert.Equal(t, "\a", buf.String())
}

func TestRecorderCounts(t *testing.T) {
	var rec Recorder
	rec.Play(Correct)
	rec.Play(Incorrect)
	rec.Play(Correct)
	assert.Equal(t, 2, rec.Count(Correct))
	assert.Equal(t, []Event{Correct, Incorrect, Correct}, rec.Events())
}
