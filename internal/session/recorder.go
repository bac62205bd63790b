package session

import (
	"context"
	"fmt"

	"github.com/verte-zerg/typemaster/internal/logger"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

// History appends committed sessions.
type History interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) error
}

// Recorder persists finished sessions. It returns the snapshot taken after
// every write has landed, which is the only one unlock checks may use.
type Recorder struct {
	progress *progress.Store
	history  History
	log      *logger.Logger
}

// NewRecorder returns a Recorder. history may be nil to skip the log of sessions.
func NewRecorder(p *progress.Store, history History, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{progress: p, history: history, log: log}
}

// Enter marks a play session as started for the daily streak.
func (r *Recorder) Enter() (model.UserProgress, error) {
	return r.progress.UpdateStreak()
}

// Commit records a finished level: completion and XP together, then the
// per-concept outcomes, then the history row.
func (r *Recorder) Commit(ctx context.Context, key model.LevelKey, res model.GameResult) (model.UserProgress, error) {
	if _, err := r.progress.RecordLevelResult(key, res.XP); err != nil {
		return r.progress.Get(), fmt.Errorf("record level %s: %w", key, err)
	}
	return r.finish(ctx, key, res)
}

// CommitChallenge records an AI challenge, which is not tied to a level.
func (r *Recorder) CommitChallenge(ctx context.Context, res model.GameResult) (model.UserProgress, error) {
	if res.XP > 0 {
		if _, err := r.progress.AddXP(res.XP); err != nil {
			return r.progress.Get(), fmt.Errorf("award xp: %w", err)
		}
	}
	return r.finish(ctx, model.LevelKey{}, res)
}

func (r *Recorder) finish(ctx context.Context, key model.LevelKey, res model.GameResult) (model.UserProgress, error) {
	snapshot, err := r.progress.UpdateConceptScores(res.Outcomes)
	if err != nil {
		return snapshot, fmt.Errorf("record concept scores: %w", err)
	}
	if r.history != nil {
		rec := model.SessionRecord{
			ID:             res.ID,
			Mode:           res.Mode,
			ChapterID:      key.ChapterID,
			LevelID:        key.LevelID,
			XP:             res.XP,
			WPM:            res.WPM,
			Accuracy:       res.Accuracy,
			CorrectAnswers: res.CorrectAnswers,
			TotalQuestions: res.TotalQuestions,
			StartedAt:      res.StartedAt,
			EndedAt:        res.EndedAt,
		}
		if err := r.history.InsertSession(ctx, rec); err != nil {
			// Progress is already committed; a missing history row is not fatal.
			r.log.Error("write session history failed", "session", res.ID, "err", err)
		}
	}
	r.log.Info("session committed", "mode", string(res.Mode), "level", key.String(), "xp", res.XP, "xp_total", snapshot.XP)
	return snapshot, nil
}
