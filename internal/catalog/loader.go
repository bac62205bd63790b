package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

//go:embed curriculum/*.json
var defaultCurriculum embed.FS

// ErrEmpty is returned when no valid chapter survives validation.
var ErrEmpty = errors.New("catalog has no chapters")

// Diagnostic describes an entry dropped during loading.
type Diagnostic struct {
	File    string
	Chapter string
	Level   int
	Message string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.File)
	if d.Chapter != "" {
		b.WriteString(": chapter ")
		b.WriteString(d.Chapter)
	}
	if d.Level != 0 {
		fmt.Fprintf(&b, " level %d", d.Level)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

type rawConcept struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Difficulty string `json:"difficulty"`
}

type rawLevel struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Concepts   []string `json:"concepts"`
	RequiredXP int      `json:"requiredXp"`
	GameMode   string   `json:"gameMode"`
}

type rawChapter struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Order       int          `json:"order"`
	Concepts    []rawConcept `json:"concepts"`
	Levels      []rawLevel   `json:"levels"`
}

type sourcedChapter struct {
	file string
	raw  rawChapter
}

// Default loads the curriculum embedded in the binary.
func Default() (*Catalog, []Diagnostic, error) {
	return Load(defaultCurriculum, "curriculum")
}

// LoadDir loads every chapter file in a directory on disk.
func LoadDir(dir string) (*Catalog, []Diagnostic, error) {
	return Load(os.DirFS(dir), ".")
}

// Load reads every *.json chapter document in dir. Malformed files and invalid
// entries are dropped and reported as diagnostics; only an unreadable directory
// or an empty result is an error.
func Load(fsys fs.FS, dir string) (*Catalog, []Diagnostic, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read curriculum: %w", err)
	}

	var diags []Diagnostic
	var raws []sourcedChapter
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			diags = append(diags, Diagnostic{File: entry.Name(), Message: fmt.Sprintf("read: %v", err)})
			continue
		}
		var raw rawChapter
		if err := json.Unmarshal(data, &raw); err != nil {
			diags = append(diags, Diagnostic{File: entry.Name(), Message: fmt.Sprintf("parse: %v", err)})
			continue
		}
		raws = append(raws, sourcedChapter{file: entry.Name(), raw: raw})
	}

	sort.SliceStable(raws, func(i, j int) bool {
		return raws[i].raw.Order < raws[j].raw.Order
	})

	var chapters []model.Chapter
	var concepts []model.Concept
	seenChapters := map[string]struct{}{}
	seenConcepts := map[string]struct{}{}
	for _, src := range raws {
		raw := src.raw
		if raw.ID == "" {
			diags = append(diags, Diagnostic{File: src.file, Message: "chapter id is empty"})
			continue
		}
		if _, dup := seenChapters[raw.ID]; dup {
			diags = append(diags, Diagnostic{File: src.file, Chapter: raw.ID, Message: "duplicate chapter id"})
			continue
		}
		seenChapters[raw.ID] = struct{}{}

		owned := map[string]struct{}{}
		for _, rc := range raw.Concepts {
			if rc.ID == "" || rc.Term == "" {
				diags = append(diags, Diagnostic{File: src.file, Chapter: raw.ID, Message: fmt.Sprintf("concept %q has no id or term", rc.ID)})
				continue
			}
			if _, dup := seenConcepts[rc.ID]; dup {
				diags = append(diags, Diagnostic{File: src.file, Chapter: raw.ID, Message: fmt.Sprintf("duplicate concept id %q", rc.ID)})
				continue
			}
			difficulty := model.Difficulty(rc.Difficulty)
			if !difficulty.Valid() {
				diags = append(diags, Diagnostic{File: src.file, Chapter: raw.ID, Message: fmt.Sprintf("concept %q has invalid difficulty %q", rc.ID, rc.Difficulty)})
				continue
			}
			seenConcepts[rc.ID] = struct{}{}
			owned[rc.ID] = struct{}{}
			concepts = append(concepts, model.Concept{
				ID:         rc.ID,
				Term:       rc.Term,
				Definition: rc.Definition,
				ChapterID:  raw.ID,
				Difficulty: difficulty,
			})
		}

		chapter := model.Chapter{
			ID:          raw.ID,
			Title:       raw.Title,
			Description: raw.Description,
			Icon:        raw.Icon,
		}
		seenLevels := map[int]struct{}{}
		for _, rl := range raw.Levels {
			level, levelDiags, ok := buildLevel(src.file, raw.ID, rl, seenLevels, seenConcepts)
			diags = append(diags, levelDiags...)
			if !ok {
				continue
			}
			seenLevels[level.ID] = struct{}{}
			chapter.Levels = append(chapter.Levels, level)
		}
		chapters = append(chapters, chapter)
	}

	if len(chapters) == 0 {
		return nil, diags, ErrEmpty
	}
	return newCatalog(chapters, concepts), diags, nil
}

// buildLevel validates a raw level. Concept references resolve against every
// concept loaded so far, so a level may reference an earlier chapter's concepts.
func buildLevel(file, chapterID string, rl rawLevel, seenLevels map[int]struct{}, known map[string]struct{}) (model.Level, []Diagnostic, bool) {
	var diags []Diagnostic
	if rl.ID <= 0 {
		return model.Level{}, []Diagnostic{{File: file, Chapter: chapterID, Message: fmt.Sprintf("level id %d must be positive", rl.ID)}}, false
	}
	if _, dup := seenLevels[rl.ID]; dup {
		return model.Level{}, []Diagnostic{{File: file, Chapter: chapterID, Level: rl.ID, Message: "duplicate level id"}}, false
	}
	mode := model.GameMode(rl.GameMode)
	if !mode.Valid() {
		return model.Level{}, []Diagnostic{{File: file, Chapter: chapterID, Level: rl.ID, Message: fmt.Sprintf("invalid game mode %q", rl.GameMode)}}, false
	}
	level := model.Level{
		ID:         rl.ID,
		Name:       rl.Name,
		RequiredXP: rl.RequiredXP,
		GameMode:   mode,
	}
	for _, id := range rl.Concepts {
		if _, ok := known[id]; !ok {
			diags = append(diags, Diagnostic{File: file, Chapter: chapterID, Level: rl.ID, Message: fmt.Sprintf("unknown concept %q dropped", id)})
			continue
		}
		level.ConceptIDs = append(level.ConceptIDs, id)
	}
	return level, diags, true
}
