// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a run of committed sessions.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	TotalXP     int
	Correct     int
	Questions   int
	ByMode      map[model.Mode]int
}

// Summarize folds sessions into a Summary.
func Summarize(sessions []model.SessionRecord) Summary {
	sum := Summary{ByMode: make(map[model.Mode]int)}
	if len(sessions) == 0 {
		return sum
	}
	var totalWPM, totalAcc float64
	for _, s := range sessions {
		totalWPM += float64(s.WPM)
		totalAcc += float64(s.Accuracy)
		if s.WPM > sum.BestWPM {
			sum.BestWPM = s.WPM
		}
		sum.TotalXP += s.XP
		sum.Correct += s.CorrectAnswers
		sum.Questions += s.TotalQuestions
		sum.ByMode[s.Mode]++
	}
	sum.Sessions = len(sessions)
	sum.AvgWPM = totalWPM / float64(len(sessions))
	sum.AvgAccuracy = totalAcc / float64(len(sessions))
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := bounds(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the summary block for a report.
func RenderSummary(w io.Writer, r Report) error {
	s := r.Summary
	if s.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Answers: %d/%d", s.Correct, s.Questions),
		fmt.Sprintf("XP earned: %d", s.TotalXP),
	}
	for _, mode := range []model.Mode{model.ModeQuiz, model.ModeRace, model.ModeAIQuiz, model.ModeExplain} {
		if n := s.ByMode[mode]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %d", mode, n))
		}
	}
	if len(r.WPM) > 1 {
		lines = append(lines, "WPM trend: "+Sparkline(r.WPM))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy curves for the report.
func RenderCurves(w io.Writer, r Report, totalWidth, height int, useColor bool) error {
	if len(r.WPM) < 2 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "WPM", Values: r.WPM},
		{Name: "Accuracy", Values: r.Accuracy},
	}, width, height, useColor)
}

func bounds(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.IsInf(minVal, 1) {
		minVal = 0
	}
	if math.IsInf(maxVal, -1) {
		maxVal = 0
	}
	return minVal, maxVal
}
