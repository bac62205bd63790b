package stats

import (
	"context"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/store"
)

// Lister reads committed sessions in chronological order.
type Lister interface {
	ListSessions(ctx context.Context, filter store.SessionFilter) ([]model.SessionRecord, error)
}

// ReportConfig selects the sessions a report covers.
type ReportConfig struct {
	Filter store.SessionFilter
	Last   int
	Window int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
	Summary  Summary
	WPM      []float64
	Accuracy []float64
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st Lister, cfg ReportConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg.Filter)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	// Explain sessions carry no answers and would flatten the curves.
	var wpms, accs []float64
	for _, s := range sessions {
		if s.Mode == model.ModeExplain {
			continue
		}
		wpms = append(wpms, float64(s.WPM))
		accs = append(accs, float64(s.Accuracy))
	}

	return Report{
		Sessions: sessions,
		Summary:  Summarize(sessions),
		WPM:      MovingAverage(wpms, cfg.Window),
		Accuracy: MovingAverage(accs, cfg.Window),
	}, nil
}
