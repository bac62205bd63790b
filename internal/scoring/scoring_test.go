package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestComputeXPQuizWithAccuracyBonus(t *testing.T) {
	// base 160, bonus 80
	assert.Equal(t, 240, ComputeXP(8, 97, model.ModeQuiz))
}

func TestComputeXPBelowThreshold(t *testing.T) {
	assert.Equal(t, 160, ComputeXP(8, 94, model.ModeQuiz))
	assert.Equal(t, 0, ComputeXP(0, 100, model.ModeQuiz))
}

func TestComputeXPRaceSpeedBonus(t *testing.T) {
	assert.Equal(t, 180, ComputeXP(9, 80, model.ModeRace))
	assert.Equal(t, 250, ComputeXP(10, 80, model.ModeRace))
	assert.Equal(t, 350, ComputeXP(10, 95, model.ModeRace))
}

func TestComputeXPAIQuizIgnoresAccuracy(t *testing.T) {
	assert.Equal(t, 60, ComputeXP(3, 0, model.ModeAIQuiz))
	assert.Equal(t, 60, ComputeXP(3, 100, model.ModeAIQuiz))
}

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 100: 2, 250: 3, 1000: 11}
	for xp, level := range cases {
		assert.Equal(t, level, LevelForXP(xp), "xp=%d", xp)
	}
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "PERFECT!", Title(model.ModeQuiz, 3, 100))
	assert.Equal(t, "LEVEL UP!", Title(model.ModeQuiz, 3, 90))
	assert.Equal(t, "SPEED DEMON!", Title(model.ModeRace, 15, 50))
	assert.Equal(t, "GREAT RUN!", Title(model.ModeRace, 10, 50))
	assert.Equal(t, "GOOD TRY!", Title(model.ModeAIQuiz, 3, AIQuizAccuracy(3, 5)))
	assert.Equal(t, "KEEP LEARNING!", Title(model.ModeAIQuiz, 1, AIQuizAccuracy(1, 5)))
}
