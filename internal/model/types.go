// Package model defines shared data structures.
package model

import (
	"time"
)

// Difficulty grades a concept.
type Difficulty string

// Concept difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// GameMode selects the gameplay loop bound to a level.
type GameMode string

// Level game modes.
const (
	GameModeQuiz GameMode = "quiz"
	GameModeRace GameMode = "race"
)

// Valid reports whether m is a known level game mode.
func (m GameMode) Valid() bool {
	return m == GameModeQuiz || m == GameModeRace
}

// Concept is a single term and definition flashcard.
type Concept struct {
	ID         string
	Term       string
	Definition string
	ChapterID  string
	Difficulty Difficulty
}

// Level is a playable unit within a chapter.
type Level struct {
	ID         int
	Name       string
	ConceptIDs []string
	RequiredXP int
	GameMode   GameMode
}

// Chapter groups levels. Its position in the catalog drives unlock thresholds.
type Chapter struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Levels      []Level
}

// ConceptScore tracks answer history for one concept.
type ConceptScore struct {
	Correct   int   `json:"correct"`
	Incorrect int   `json:"incorrect"`
	LastSeen  int64 `json:"lastSeen"` // unix milliseconds
}

// UserProgress is the persisted learner state.
type UserProgress struct {
	XP              int                     `json:"xp"`
	Level           int                     `json:"level"`
	CurrentChapter  string                  `json:"currentChapter"`
	CompletedLevels []LevelKey              `json:"completedLevels"`
	Streak          int                     `json:"streak"`
	ConceptScores   map[string]ConceptScore `json:"conceptScores"`
}

// Clone returns a deep copy so callers never share mutable state with the store.
func (p UserProgress) Clone() UserProgress {
	out := p
	out.CompletedLevels = append([]LevelKey(nil), p.CompletedLevels...)
	out.ConceptScores = make(map[string]ConceptScore, len(p.ConceptScores))
	for id, score := range p.ConceptScores {
		out.ConceptScores[id] = score
	}
	return out
}

// HasCompleted reports whether the level identified by key is completed.
func (p UserProgress) HasCompleted(key LevelKey) bool {
	for _, k := range p.CompletedLevels {
		if k == key {
			return true
		}
	}
	return false
}

// SessionMetrics holds live typing metrics. It is never persisted.
type SessionMetrics struct {
	CorrectChars   int
	IncorrectChars int
	TotalChars     int
	WPM            int
	Accuracy       int
	StartTime      *time.Time
}

// Mode identifies a gameplay loop for scoring and history.
type Mode string

// Session modes.
const (
	ModeQuiz    Mode = "quiz"
	ModeRace    Mode = "race"
	ModeAIQuiz  Mode = "ai-quiz"
	ModeExplain Mode = "ai-explain"
)

// ConceptOutcome records one graded attempt on a concept.
type ConceptOutcome struct {
	ConceptID string
	Correct   bool
}

// GameResult summarizes a finished session.
type GameResult struct {
	ID             string
	Mode           Mode
	Title          string
	XP             int
	WPM            int
	Accuracy       int
	CorrectAnswers int
	TotalQuestions int
	Skipped        int
	Outcomes       []ConceptOutcome
	StartedAt      time.Time
	EndedAt        time.Time
}

// SessionRecord is a committed session stored in history.
type SessionRecord struct {
	ID             string
	Mode           Mode
	ChapterID      string
	LevelID        int
	XP             int
	WPM            int
	Accuracy       int
	CorrectAnswers int
	TotalQuestions int
	StartedAt      time.Time
	EndedAt        time.Time
}
