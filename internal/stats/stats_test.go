package stats

import (
	"math"
	"testing"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestSummarize(t *testing.T) {
	sum := Summarize([]model.SessionRecord{
		{Mode: model.ModeQuiz, WPM: 30, Accuracy: 100, XP: 50, CorrectAnswers: 3, TotalQuestions: 3},
		{Mode: model.ModeRace, WPM: 50, Accuracy: 80, XP: 70, CorrectAnswers: 5, TotalQuestions: 7},
	})
	if sum.Sessions != 2 || sum.BestWPM != 50 || sum.TotalXP != 120 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if math.Abs(sum.AvgWPM-40) > 1e-9 || math.Abs(sum.AvgAccuracy-90) > 1e-9 {
		t.Fatalf("unexpected averages %+v", sum)
	}
	if sum.Correct != 8 || sum.Questions != 10 {
		t.Fatalf("unexpected answer totals %+v", sum)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Sessions != 0 || sum.AvgWPM != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("flat series should use the middle glyph, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}
