package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/gating"
	"github.com/verte-zerg/typemaster/internal/model"
)

var (
	errInvalidLevelID = errors.New("invalid level id")
	errUnknownChapter = errors.New("unknown chapter")
	errLevelNotFound  = errors.New("level not found")
	errChapterLocked  = errors.New("chapter is locked")
	errLevelLocked    = errors.New("level is locked")
)

// parseLevelID accepts positive integers only.
func parseLevelID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q (expected a positive integer)", errInvalidLevelID, s)
	}
	return id, nil
}

func lookupChapter(cat *catalog.Catalog, id string) (model.Chapter, error) {
	ch, ok := cat.Chapter(id)
	if !ok {
		return model.Chapter{}, fmt.Errorf("%w: %q", errUnknownChapter, id)
	}
	return ch, nil
}

// resolveLevel finds a playable level and checks that the learner may enter it.
func resolveLevel(cat *catalog.Catalog, policy *gating.Policy, p model.UserProgress, chapterID, levelArg string) (model.Chapter, model.Level, error) {
	levelID, err := parseLevelID(levelArg)
	if err != nil {
		return model.Chapter{}, model.Level{}, err
	}
	ch, err := lookupChapter(cat, chapterID)
	if err != nil {
		return model.Chapter{}, model.Level{}, err
	}
	lv, ok := cat.Level(chapterID, levelID)
	if !ok {
		return ch, model.Level{}, fmt.Errorf("%w: %s level %d", errLevelNotFound, chapterID, levelID)
	}
	if !policy.IsChapterUnlockedByID(p, chapterID) {
		idx, _ := cat.ChapterIndex(chapterID)
		return ch, lv, fmt.Errorf("%w: %s needs learner level %d", errChapterLocked, chapterID, idx*gating.LevelsPerChapterGate+1)
	}
	if !policy.IsLevelUnlocked(p, chapterID, levelID) {
		return ch, lv, fmt.Errorf("%w: complete %s level %d first", errLevelLocked, chapterID, levelID-1)
	}
	return ch, lv, nil
}
