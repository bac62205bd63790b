// Package scoring converts finished session metrics into experience points.
package scoring

import (
	"math"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Shared scoring constants.
const (
	XPPerLevel              = 100
	XPPerCorrectAnswer      = 20
	AccuracyBonusThreshold  = 95
	AccuracyBonusMultiplier = 0.5

	RaceSpeedBonus           = 50
	RaceSpeedBonusMinCorrect = 10

	AIQuizXPPerCorrect = 20
)

// ComputeXP returns the experience award for a finished session.
func ComputeXP(correctAnswers, accuracy int, mode model.Mode) int {
	if correctAnswers <= 0 {
		return 0
	}
	switch mode {
	case model.ModeAIQuiz:
		return correctAnswers * AIQuizXPPerCorrect
	case model.ModeExplain:
		return 0
	}

	base := correctAnswers * XPPerCorrectAnswer
	bonus := 0
	if accuracy >= AccuracyBonusThreshold {
		bonus = int(math.Round(float64(base) * AccuracyBonusMultiplier))
	}
	total := base + bonus
	if mode == model.ModeRace && correctAnswers >= RaceSpeedBonusMinCorrect {
		total += RaceSpeedBonus
	}
	return total
}

// LevelForXP derives the learner level from total experience.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// AIQuizAccuracy is the share of correct answers as a 0-100 integer.
func AIQuizAccuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// Title picks the victory banner for a finished session.
func Title(mode model.Mode, correctAnswers, accuracy int) string {
	switch mode {
	case model.ModeRace:
		switch {
		case correctAnswers >= 15:
			return "SPEED DEMON!"
		case correctAnswers >= 10:
			return "GREAT RUN!"
		default:
			return "LEVEL UP!"
		}
	case model.ModeAIQuiz:
		switch {
		case accuracy == 100:
			return "PERFECT!"
		case accuracy >= 80:
			return "GREAT JOB!"
		case accuracy >= 60:
			return "GOOD TRY!"
		default:
			return "KEEP LEARNING!"
		}
	default:
		if accuracy == 100 {
			return "PERFECT!"
		}
		return "LEVEL UP!"
	}
}
