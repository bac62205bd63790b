// Package tui provides the Bubble Tea play and challenge screens.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/typing"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	cardStyle        = lipgloss.NewStyle().
				Padding(1, 2).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes colours target against input. Typed runes match without
// regard to case, the same rule the typing engine scores with. Extra input
// beyond the target is shown struck in red after it.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case typing.MatchAt(targetRunes, i, inputRunes[i]):
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	for i := len(targetRunes); i < len(inputRunes); i++ {
		r := inputRunes[i]
		out = append(out, styledRune{
			s:     incorrectStyle.Strikethrough(true).Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursorIndex < 0 {
		return &words[0]
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

// wrapText word-wraps plain prose such as definitions and explanations.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(para) {
			w := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+w > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += w
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// contentWidth is 0 (no wrapping) until the terminal size is known.
func contentWidth(total int) int {
	if total <= 0 {
		return 0
	}
	w := int(float64(total) * 0.70)
	if w < 20 {
		w = total
	}
	return w
}
