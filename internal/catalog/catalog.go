// Package catalog loads the read-only chapter, level and concept hierarchy.
package catalog

import (
	"github.com/verte-zerg/typemaster/internal/model"
)

// Catalog is an immutable, validated curriculum.
type Catalog struct {
	chapters     []model.Chapter
	concepts     []model.Concept
	conceptByID  map[string]int
	chapterIndex map[string]int
}

func newCatalog(chapters []model.Chapter, concepts []model.Concept) *Catalog {
	c := &Catalog{
		chapters:     chapters,
		concepts:     concepts,
		conceptByID:  make(map[string]int, len(concepts)),
		chapterIndex: make(map[string]int, len(chapters)),
	}
	for i, concept := range concepts {
		c.conceptByID[concept.ID] = i
	}
	for i, chapter := range chapters {
		c.chapterIndex[chapter.ID] = i
	}
	return c
}

// Chapters returns chapters in global order.
func (c *Catalog) Chapters() []model.Chapter {
	out := make([]model.Chapter, len(c.chapters))
	copy(out, c.chapters)
	return out
}

// Concepts returns every concept, grouped by chapter order.
func (c *Catalog) Concepts() []model.Concept {
	out := make([]model.Concept, len(c.concepts))
	copy(out, c.concepts)
	return out
}

// FirstChapterID returns the id of the chapter at ordinal 0.
func (c *Catalog) FirstChapterID() string {
	if len(c.chapters) == 0 {
		return ""
	}
	return c.chapters[0].ID
}

// Chapter looks up a chapter by id.
func (c *Catalog) Chapter(id string) (model.Chapter, bool) {
	idx, ok := c.chapterIndex[id]
	if !ok {
		return model.Chapter{}, false
	}
	return c.chapters[idx], true
}

// ChapterIndex returns the zero-based ordinal of a chapter.
func (c *Catalog) ChapterIndex(id string) (int, bool) {
	idx, ok := c.chapterIndex[id]
	return idx, ok
}

// Level looks up a level within a chapter.
func (c *Catalog) Level(chapterID string, levelID int) (model.Level, bool) {
	chapter, ok := c.Chapter(chapterID)
	if !ok {
		return model.Level{}, false
	}
	for _, level := range chapter.Levels {
		if level.ID == levelID {
			return level, true
		}
	}
	return model.Level{}, false
}

// Concept looks up a concept by id.
func (c *Catalog) Concept(id string) (model.Concept, bool) {
	idx, ok := c.conceptByID[id]
	if !ok {
		return model.Concept{}, false
	}
	return c.concepts[idx], true
}

// ConceptsByChapter returns the concepts owned by a chapter.
func (c *Catalog) ConceptsByChapter(chapterID string) []model.Concept {
	var out []model.Concept
	for _, concept := range c.concepts {
		if concept.ChapterID == chapterID {
			out = append(out, concept)
		}
	}
	return out
}

// ConceptsForLevel resolves a level's concept ids in display order.
func (c *Catalog) ConceptsForLevel(chapterID string, levelID int) []model.Concept {
	level, ok := c.Level(chapterID, levelID)
	if !ok {
		return nil
	}
	out := make([]model.Concept, 0, len(level.ConceptIDs))
	for _, id := range level.ConceptIDs {
		if concept, ok := c.Concept(id); ok {
			out = append(out, concept)
		}
	}
	return out
}
