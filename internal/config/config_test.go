package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	s, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "TypeMaster", s.SiteName)
	assert.Equal(t, 30*time.Second, s.QuizTime)
	assert.Equal(t, "gpt-4o-mini", s.AIModel)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[site]
name = "Team Trainer"

[game]
quiz-seconds = 20
race-seconds = 90
reveal-ms = 500

[ai]
model = "gpt-4o"
temperature = 0.2

[log]
level = "debug"
file = ""
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	s, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Team Trainer", s.SiteName)
	assert.Equal(t, 20*time.Second, s.QuizTime)
	assert.Equal(t, 90*time.Second, s.RaceTime)
	assert.Equal(t, 500*time.Millisecond, s.RevealTime)
	assert.Equal(t, "gpt-4o", s.AIModel)
	assert.InDelta(t, 0.2, s.AITemperature, 1e-9)
	assert.Equal(t, 500, s.QuizMaxTokens)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "", s.LogFile)
}

func TestResolveRejectsInvalid(t *testing.T) {
	zero := 0
	_, err := FileConfig{Game: GameConfig{QuizSeconds: &zero}}.Resolve()
	assert.Error(t, err)

	hot := 3.0
	_, err = FileConfig{AI: AIConfig{Temperature: &hot}}.Resolve()
	assert.Error(t, err)
}

func TestTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(Template), 0o644))
	_, err := LoadConfig(path)
	assert.NoError(t, err)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/cfg", "typemaster", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "typemaster", "typemaster.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/data", "typemaster", "typemaster.log"), DefaultLogPath())
}
