// Package gating decides which chapters, levels and concepts are playable.
package gating

import (
	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/model"
)

// LevelsPerChapterGate is the learner-level step between chapter unlocks.
const LevelsPerChapterGate = 10

// Policy evaluates unlock rules against a progress snapshot. It holds no
// state of its own; callers must pass a snapshot taken after their writes.
type Policy struct {
	catalog *catalog.Catalog
}

// New returns a Policy over cat.
func New(cat *catalog.Catalog) *Policy {
	return &Policy{catalog: cat}
}

// IsLevelUnlocked reports whether a level may be played. Level 1 is always
// open; level N needs level N-1 of the same chapter completed.
func (p *Policy) IsLevelUnlocked(progress model.UserProgress, chapterID string, levelID int) bool {
	if levelID < 1 {
		return false
	}
	if levelID == 1 {
		return true
	}
	return progress.HasCompleted(model.NewLevelKey(chapterID, levelID-1))
}

// IsLevelCompleted reports whether the level is in the completed set.
func (p *Policy) IsLevelCompleted(progress model.UserProgress, chapterID string, levelID int) bool {
	return progress.HasCompleted(model.NewLevelKey(chapterID, levelID))
}

// IsChapterUnlocked gates a chapter by its zero-based ordinal on the
// learner level: ordinal i needs level i*10+1.
func (p *Policy) IsChapterUnlocked(progress model.UserProgress, index int) bool {
	if index < 0 {
		return false
	}
	if index == 0 {
		return true
	}
	return progress.Level >= index*LevelsPerChapterGate+1
}

// IsChapterUnlockedByID resolves the chapter ordinal and applies IsChapterUnlocked.
func (p *Policy) IsChapterUnlockedByID(progress model.UserProgress, chapterID string) bool {
	idx, ok := p.catalog.ChapterIndex(chapterID)
	if !ok {
		return false
	}
	return p.IsChapterUnlocked(progress, idx)
}

// CompletedLevelsForChapter counts completed levels that belong to chapterID.
// Keys are matched on the full chapter id, so "ai" never counts "ai-foundations".
func (p *Policy) CompletedLevelsForChapter(progress model.UserProgress, chapterID string) int {
	count := 0
	for _, key := range progress.CompletedLevels {
		if key.ChapterID == chapterID {
			count++
		}
	}
	return count
}

// IsChapterComplete reports whether every level of the chapter is completed.
// Unknown chapters are never complete.
func (p *Policy) IsChapterComplete(progress model.UserProgress, chapterID string) bool {
	chapter, ok := p.catalog.Chapter(chapterID)
	if !ok {
		return false
	}
	return p.CompletedLevelsForChapter(progress, chapterID) >= len(chapter.Levels)
}

// UnlockedConcepts returns the concepts of every chapter with at least one
// completed level, in catalog order.
func (p *Policy) UnlockedConcepts(progress model.UserProgress) []model.Concept {
	var out []model.Concept
	for _, chapter := range p.catalog.Chapters() {
		if p.CompletedLevelsForChapter(progress, chapter.ID) == 0 {
			continue
		}
		out = append(out, p.catalog.ConceptsByChapter(chapter.ID)...)
	}
	return out
}
