// Package progress is the read/write gateway to persisted learner state.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verte-zerg/typemaster/internal/logger"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/review"
	"github.com/verte-zerg/typemaster/internal/scoring"
	"github.com/verte-zerg/typemaster/internal/store"
)

// ErrNegativeXP is returned by AddXP for amounts below zero.
var ErrNegativeXP = errors.New("xp amount must not be negative")

const dateLayout = "2006-01-02"

// KV is the durable storage contract the store writes through.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store loads, transforms and persists UserProgress. Every mutation is
// written before it returns.
type Store struct {
	kv           KV
	keys         store.Keys
	firstChapter string
	now          func() time.Time
	log          *logger.Logger

	mu sync.Mutex
}

// Options configures a Store. Now and Log may be nil.
type Options struct {
	Keys         store.Keys
	FirstChapter string
	Now          func() time.Time
	Log          *logger.Logger
}

// New returns a Store backed by kv.
func New(kv KV, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		kv:           kv,
		keys:         opts.Keys,
		firstChapter: opts.FirstChapter,
		now:          now,
		log:          log,
	}
}

// Default returns the state used when nothing valid is persisted.
func (s *Store) Default() model.UserProgress {
	return model.UserProgress{
		XP:              0,
		Level:           1,
		CurrentChapter:  s.firstChapter,
		CompletedLevels: []model.LevelKey{},
		Streak:          0,
		ConceptScores:   map[string]model.ConceptScore{},
	}
}

// Get returns the persisted progress, or the default when it is missing or corrupt.
func (s *Store) Get() model.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// AddXP adds amount to xp and recomputes the level.
func (s *Store) AddXP(amount int) (model.UserProgress, error) {
	if amount < 0 {
		return s.Get(), ErrNegativeXP
	}
	return s.update(func(p *model.UserProgress) bool {
		addXP(p, amount)
		return true
	})
}

// CompleteLevel marks key completed. Completing a level twice is a no-op.
func (s *Store) CompleteLevel(key model.LevelKey) (model.UserProgress, error) {
	return s.update(func(p *model.UserProgress) bool {
		return completeLevel(p, key)
	})
}

// RecordLevelResult completes key and awards xp in a single write. The
// returned snapshot reflects both and is the one gating must be evaluated on.
func (s *Store) RecordLevelResult(key model.LevelKey, xp int) (model.UserProgress, error) {
	if xp < 0 {
		return s.Get(), ErrNegativeXP
	}
	return s.update(func(p *model.UserProgress) bool {
		completeLevel(p, key)
		addXP(p, xp)
		return true
	})
}

// UpdateConceptScore counts one attempt on conceptID and stamps lastSeen.
func (s *Store) UpdateConceptScore(conceptID string, correct bool) (model.UserProgress, error) {
	return s.UpdateConceptScores([]model.ConceptOutcome{{ConceptID: conceptID, Correct: correct}})
}

// UpdateConceptScores applies several outcomes in one write.
func (s *Store) UpdateConceptScores(outcomes []model.ConceptOutcome) (model.UserProgress, error) {
	stamp := s.now().UnixMilli()
	return s.update(func(p *model.UserProgress) bool {
		for _, o := range outcomes {
			score := p.ConceptScores[o.ConceptID]
			if o.Correct {
				score.Correct++
			} else {
				score.Incorrect++
			}
			score.LastSeen = stamp
			p.ConceptScores[o.ConceptID] = score
		}
		return len(outcomes) > 0
	})
}

// UpdateStreak compares the last played day with today in local time.
// Yesterday extends the streak, today keeps it, anything else resets it.
// The last played day is always set to today.
func (s *Store) UpdateStreak() (model.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	lastPlayed, _, err := s.kv.Get(s.keys.LastPlayed)
	if err != nil {
		return s.load(), fmt.Errorf("read last played: %w", err)
	}

	p := s.load()
	switch lastPlayed {
	case yesterday:
		p.Streak++
	case today:
	default:
		p.Streak = 0
	}
	if err := s.kv.Set(s.keys.LastPlayed, today); err != nil {
		return p, fmt.Errorf("write last played: %w", err)
	}
	if err := s.save(p); err != nil {
		return p, err
	}
	return p.Clone(), nil
}

// Reset removes the persisted progress and last played day.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{s.keys.Progress, s.keys.LastPlayed} {
		if err := s.kv.Remove(key); err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	s.log.Info("progress reset")
	return nil
}

// ConceptsForReview returns weak concept ids, stalest first.
func (s *Store) ConceptsForReview(limit int) []string {
	return review.Select(s.Get().ConceptScores, limit)
}

// update runs fn on the current state and persists it when fn reports a change.
func (s *Store) update(fn func(p *model.UserProgress) bool) (model.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.load()
	if !fn(&p) {
		return p.Clone(), nil
	}
	if err := s.save(p); err != nil {
		return p, err
	}
	return p.Clone(), nil
}

// storedProgress is the persisted shape. Completed levels are decoded as raw
// strings so one bad entry does not discard the rest of the state.
type storedProgress struct {
	XP              int                           `json:"xp"`
	CurrentChapter  string                        `json:"currentChapter"`
	CompletedLevels []string                      `json:"completedLevels"`
	Streak          int                           `json:"streak"`
	ConceptScores   map[string]model.ConceptScore `json:"conceptScores"`
}

func (s *Store) load() model.UserProgress {
	raw, ok, err := s.kv.Get(s.keys.Progress)
	if err != nil {
		s.log.Warn("read progress failed, using defaults", "err", err)
		return s.Default()
	}
	if !ok || raw == "" {
		return s.Default()
	}
	var stored storedProgress
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Warn("corrupt progress, using defaults", "err", err)
		return s.Default()
	}
	p := model.UserProgress{
		XP:              stored.XP,
		CurrentChapter:  stored.CurrentChapter,
		CompletedLevels: make([]model.LevelKey, 0, len(stored.CompletedLevels)),
		Streak:          stored.Streak,
		ConceptScores:   stored.ConceptScores,
	}
	for _, entry := range stored.CompletedLevels {
		key, err := model.ParseLevelKey(entry)
		if err != nil {
			s.log.Warn("dropping invalid completed level", "entry", entry, "err", err)
			continue
		}
		if !p.HasCompleted(key) {
			p.CompletedLevels = append(p.CompletedLevels, key)
		}
	}
	if p.ConceptScores == nil {
		p.ConceptScores = map[string]model.ConceptScore{}
	}
	if p.CurrentChapter == "" {
		p.CurrentChapter = s.firstChapter
	}
	if p.XP < 0 {
		p.XP = 0
	}
	p.Level = scoring.LevelForXP(p.XP)
	return p
}

func (s *Store) save(p model.UserProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Set(s.keys.Progress, string(data)); err != nil {
		s.log.Error("write progress failed", "err", err)
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

func addXP(p *model.UserProgress, amount int) {
	p.XP += amount
	p.Level = scoring.LevelForXP(p.XP)
}

func completeLevel(p *model.UserProgress, key model.LevelKey) bool {
	if p.HasCompleted(key) {
		return false
	}
	p.CompletedLevels = append(p.CompletedLevels, key)
	return true
}
