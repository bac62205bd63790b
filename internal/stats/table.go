package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/catalog"
	"github.com/verte-zerg/typemaster/internal/gating"
	"github.com/verte-zerg/typemaster/internal/model"
)

// RenderHistoryTable prints one row per session, oldest first.
func RenderHistoryTable(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Ended", "Mode", "Level", "Answers", "WPM", "Accuracy", "XP"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		level := "-"
		if s.ChapterID != "" {
			level = model.LevelKey{ChapterID: s.ChapterID, LevelID: s.LevelID}.String()
		}
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			string(s.Mode),
			level,
			fmt.Sprintf("%d/%d", s.CorrectAnswers, s.TotalQuestions),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.XP),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true, 6: true}))
}

// RenderChapterTable prints unlock and completion state for every chapter.
func RenderChapterTable(w io.Writer, cat *catalog.Catalog, policy *gating.Policy, p model.UserProgress) error {
	chapters := cat.Chapters()
	if len(chapters) == 0 {
		_, err := fmt.Fprintln(w, "No chapters found.")
		return err
	}
	headers := []string{"#", "Chapter", "Title", "Levels", "Status"}
	rows := make([][]string, 0, len(chapters))
	for i, ch := range chapters {
		status := "locked"
		switch {
		case policy.IsChapterComplete(p, ch.ID):
			status = "complete"
		case policy.IsChapterUnlocked(p, i):
			status = "open"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ch.ID,
			strings.TrimSpace(ch.Icon + " " + ch.Title),
			fmt.Sprintf("%d/%d", policy.CompletedLevelsForChapter(p, ch.ID), len(ch.Levels)),
			status,
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 3: true}))
}

// RenderLevelTable prints the levels of one chapter with their state.
func RenderLevelTable(w io.Writer, ch model.Chapter, policy *gating.Policy, p model.UserProgress) error {
	headers := []string{"Level", "Name", "Mode", "Concepts", "Status"}
	rows := make([][]string, 0, len(ch.Levels))
	for _, lv := range ch.Levels {
		status := "locked"
		switch {
		case policy.IsLevelCompleted(p, ch.ID, lv.ID):
			status = "done"
		case policy.IsLevelUnlocked(p, ch.ID, lv.ID):
			status = "open"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", lv.ID),
			lv.Name,
			string(lv.GameMode),
			fmt.Sprintf("%d", len(lv.ConceptIDs)),
			status,
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 3: true}))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, widths[i], rightAlignCols[i])
	}
	return strings.TrimRight(strings.Join(cells, "  "), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - runewidth.StringWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
