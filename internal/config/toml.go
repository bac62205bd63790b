// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Site SiteConfig `toml:"site"`
	Game GameConfig `toml:"game"`
	AI   AIConfig   `toml:"ai"`
	Log  LogConfig  `toml:"log"`
}

// SiteConfig names the instance. The name prefixes every storage key.
type SiteConfig struct {
	Name *string `toml:"name"`
}

// GameConfig maps gameplay timing and content settings.
type GameConfig struct {
	QuizSeconds   *int    `toml:"quiz-seconds"`
	RaceSeconds   *int    `toml:"race-seconds"`
	RevealMs      *int    `toml:"reveal-ms"`
	CurriculumDir *string `toml:"curriculum-dir"`
}

// AIConfig maps the generation service settings.
type AIConfig struct {
	Endpoint         *string  `toml:"endpoint"`
	Model            *string  `toml:"model"`
	Temperature      *float64 `toml:"temperature"`
	QuizMaxTokens    *int     `toml:"quiz-max-tokens"`
	ExplainMaxTokens *int     `toml:"explain-max-tokens"`
	TimeoutSeconds   *int     `toml:"timeout-seconds"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// Settings is the fully resolved configuration.
type Settings struct {
	SiteName         string
	QuizTime         time.Duration
	RaceTime         time.Duration
	RevealTime       time.Duration
	CurriculumDir    string
	AIEndpoint       string
	AIModel          string
	AITemperature    float64
	QuizMaxTokens    int
	ExplainMaxTokens int
	AITimeout        time.Duration
	LogLevel         string
	LogFile          string
}

// Defaults returns the settings used when the file sets nothing.
func Defaults() Settings {
	return Settings{
		SiteName:         "TypeMaster",
		QuizTime:         30 * time.Second,
		RaceTime:         60 * time.Second,
		RevealTime:       2 * time.Second,
		AIEndpoint:       "https://api.openai.com",
		AIModel:          "gpt-4o-mini",
		AITemperature:    0.7,
		QuizMaxTokens:    500,
		ExplainMaxTokens: 400,
		AITimeout:        30 * time.Second,
		LogLevel:         "info",
		LogFile:          DefaultLogPath(),
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Resolve applies file values over Defaults and validates them.
func (c FileConfig) Resolve() (Settings, error) {
	s := Defaults()
	if c.Site.Name != nil {
		if *c.Site.Name == "" {
			return s, fmt.Errorf("site.name must not be empty")
		}
		s.SiteName = *c.Site.Name
	}
	if c.Game.QuizSeconds != nil {
		if *c.Game.QuizSeconds <= 0 {
			return s, fmt.Errorf("game.quiz-seconds must be > 0")
		}
		s.QuizTime = time.Duration(*c.Game.QuizSeconds) * time.Second
	}
	if c.Game.RaceSeconds != nil {
		if *c.Game.RaceSeconds <= 0 {
			return s, fmt.Errorf("game.race-seconds must be > 0")
		}
		s.RaceTime = time.Duration(*c.Game.RaceSeconds) * time.Second
	}
	if c.Game.RevealMs != nil {
		if *c.Game.RevealMs < 0 {
			return s, fmt.Errorf("game.reveal-ms must be >= 0")
		}
		s.RevealTime = time.Duration(*c.Game.RevealMs) * time.Millisecond
	}
	if c.Game.CurriculumDir != nil {
		s.CurriculumDir = *c.Game.CurriculumDir
	}
	if c.AI.Endpoint != nil {
		s.AIEndpoint = *c.AI.Endpoint
	}
	if c.AI.Model != nil {
		s.AIModel = *c.AI.Model
	}
	if c.AI.Temperature != nil {
		if *c.AI.Temperature < 0 || *c.AI.Temperature > 2 {
			return s, fmt.Errorf("ai.temperature must be between 0 and 2")
		}
		s.AITemperature = *c.AI.Temperature
	}
	if c.AI.QuizMaxTokens != nil {
		s.QuizMaxTokens = *c.AI.QuizMaxTokens
	}
	if c.AI.ExplainMaxTokens != nil {
		s.ExplainMaxTokens = *c.AI.ExplainMaxTokens
	}
	if c.AI.TimeoutSeconds != nil {
		if *c.AI.TimeoutSeconds <= 0 {
			return s, fmt.Errorf("ai.timeout-seconds must be > 0")
		}
		s.AITimeout = time.Duration(*c.AI.TimeoutSeconds) * time.Second
	}
	if c.Log.Level != nil {
		s.LogLevel = *c.Log.Level
	}
	if c.Log.File != nil {
		s.LogFile = *c.Log.File
	}
	return s, nil
}

// Template is written by `typemaster config` when no file exists yet.
const Template = `# typemaster configuration

[site]
# Prefix for stored keys. Change it to keep separate progress per name.
# name = "TypeMaster"

[game]
# quiz-seconds = 30
# race-seconds = 60
# reveal-ms = 2000
# curriculum-dir = ""

[ai]
# endpoint = "https://api.openai.com"
# model = "gpt-4o-mini"
# temperature = 0.7
# quiz-max-tokens = 500
# explain-max-tokens = 400
# timeout-seconds = 30

[log]
# level = "info"
# file = ""
`
