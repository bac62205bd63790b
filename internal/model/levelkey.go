package model

import (
	"fmt"
	"strconv"
	"strings"
)

// LevelKey identifies a level across the whole catalog.
// It serializes as "{chapterID}-{levelID}".
type LevelKey struct {
	ChapterID string
	LevelID   int
}

// NewLevelKey builds a key for the given chapter and level.
func NewLevelKey(chapterID string, levelID int) LevelKey {
	return LevelKey{ChapterID: chapterID, LevelID: levelID}
}

// String implements fmt.Stringer.
func (k LevelKey) String() string {
	return k.ChapterID + "-" + strconv.Itoa(k.LevelID)
}

// ParseLevelKey parses "{chapterID}-{levelID}". Chapter ids may contain dashes;
// the level id is the segment after the last one.
func ParseLevelKey(s string) (LevelKey, error) {
	idx := strings.LastIndexByte(s, '-')
	if idx <= 0 || idx == len(s)-1 {
		return LevelKey{}, fmt.Errorf("invalid level key %q", s)
	}
	levelID, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return LevelKey{}, fmt.Errorf("invalid level key %q: %w", s, err)
	}
	return LevelKey{ChapterID: s[:idx], LevelID: levelID}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k LevelKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *LevelKey) UnmarshalText(text []byte) error {
	parsed, err := ParseLevelKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
