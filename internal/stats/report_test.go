package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "typemaster.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	modes := []model.Mode{model.ModeQuiz, model.ModeRace, model.ModeExplain, model.ModeQuiz}
	for i, mode := range modes {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		rec := model.SessionRecord{
			ID:             string(rune('a' + i)),
			Mode:           mode,
			XP:             10 * (i + 1),
			WPM:            20 + i,
			Accuracy:       90,
			CorrectAnswers: 2,
			TotalQuestions: 3,
			StartedAt:      start,
			EndedAt:        start.Add(30 * time.Second),
		}
		if err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, ReportConfig{Last: 3})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].ID != "b" || report.Sessions[2].ID != "d" {
		t.Fatalf("unexpected session order: %+v", report.Sessions)
	}
	if len(report.WPM) != 2 {
		t.Fatalf("explain sessions should be left out of curves, got %d points", len(report.WPM))
	}
	if report.Summary.TotalXP != 20+30+40 {
		t.Fatalf("unexpected total xp %d", report.Summary.TotalXP)
	}
	if report.Summary.ByMode[model.ModeExplain] != 1 {
		t.Fatalf("expected explain session counted in summary")
	}

	filtered, err := BuildReport(ctx, st, ReportConfig{Filter: store.SessionFilter{Mode: model.ModeQuiz}})
	if err != nil {
		t.Fatalf("build filtered report: %v", err)
	}
	if len(filtered.Sessions) != 2 {
		t.Fatalf("expected 2 quiz sessions, got %d", len(filtered.Sessions))
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, report); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "Best WPM: 23") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
}
