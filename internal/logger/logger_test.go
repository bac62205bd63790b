package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRedactsSecretKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "abc", "task", "quiz", "Authorization", "Bearer x"})
	assert.Equal(t, []interface{}{"api_key", redacted, "task", "quiz", "Authorization", redacted}, out)
}

func TestSanitizeRedactsCredentialValues(t *testing.T) {
	out := sanitizeKVs([]interface{}{"value", "sk-abcdefghijklmnopqrstuvwxyz"})
	assert.Equal(t, redacted, out[1])
}

func TestSanitizeKeepsOddTrailingValue(t *testing.T) {
	out := sanitizeKVs([]interface{}{"task", "quiz", "dangling"})
	assert.Equal(t, []interface{}{"task", "quiz", "dangling"}, out)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "typemaster.log")
	log, err := New("debug", path)
	require.NoError(t, err)
	log.Info("hello", "token", "secret-value")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), redacted)
	assert.NotContains(t, string(data), "secret-value")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	log := Nop().With("task", "x")
	log.Warn("ignored")
}

func TestWithCarriesRedactedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typemaster.log")
	log, err := New("info", path)
	require.NoError(t, err)
	child := log.With("api_key", "plain-key", "task", "explain")
	child.Warn("slow reply")
	child.Debug("below level")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "slow reply")
	assert.Contains(t, out, "explain")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "plain-key")
	assert.NotContains(t, out, "below level")
}
