package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/statsui"
)

const (
	defaultCurveWindow = 5
	defaultReviewLimit = 5
)

var (
	reviewLimit int

	historyMode   string
	historySince  string
	historyLast   int
	historyWindow int
	historyPlot   bool

	resetYes bool
)

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show XP, level, streak and completed levels",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.progress.Get()
	out := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("XP: %d", p.XP),
		fmt.Sprintf("Level: %d", p.Level),
		fmt.Sprintf("Streak: %d", p.Streak),
		fmt.Sprintf("Current chapter: %s", p.CurrentChapter),
		fmt.Sprintf("Completed levels: %d", len(p.CompletedLevels)),
	}
	for _, key := range p.CompletedLevels {
		lines = append(lines, "  "+key.String())
	}
	lines = append(lines, fmt.Sprintf("Concepts seen: %d", len(p.ConceptScores)))
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "List the concepts that need the most practice",
		Args:  cobra.NoArgs,
		RunE:  runReviewCmd,
	}
	cmd.Flags().IntVar(&reviewLimit, "limit", defaultReviewLimit, "number of concepts")
	return cmd
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	ids := a.progress.ConceptsForReview(reviewLimit)
	if len(ids) == 0 {
		_, err := fmt.Fprintln(out, "Nothing to review yet.")
		return err
	}
	scores := a.progress.Get().ConceptScores
	for i, id := range ids {
		term := id
		if c, ok := a.catalog.Concept(id); ok {
			term = c.Term
		}
		s := scores[id]
		if _, err := fmt.Fprintf(out, "%d. %s  (%d correct, %d missed)\n", i+1, term, s.Correct, s.Incorrect); err != nil {
			return err
		}
	}
	return nil
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter (quiz, race, ai-quiz, ai-explain)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func reportConfig() (stats.ReportConfig, error) {
	cfg := stats.ReportConfig{Last: historyLast, Window: historyWindow}
	if historyMode != "" {
		mode, err := statsui.ParseMode(historyMode)
		if err != nil {
			return cfg, err
		}
		cfg.Filter.Mode = mode
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Filter.Since = &parsed
	}
	if cfg.Last < 0 {
		return cfg, errors.New("--last must be >= 0")
	}
	if cfg.Window <= 0 {
		return cfg, errors.New("--curve-window must be positive")
	}
	return cfg, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print session history and a summary",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addReportFlags(cmd)
	cmd.Flags().BoolVar(&historyPlot, "plot", false, "plot WPM and accuracy curves")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := reportConfig()
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := stats.BuildReport(cmd.Context(), a.store, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderHistoryTable(out, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderSummary(out, report); err != nil {
		return err
	}
	if historyPlot {
		return stats.RenderCurves(out, report, 0, 0, false)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse stats in a TUI",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addReportFlags(cmd)
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg, err := reportConfig()
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m := statsui.NewModel(statsui.Deps{
		History:  a.store,
		Catalog:  a.catalog,
		Policy:   a.policy,
		Progress: a.progress.Get,
	}, cfg)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase progress and session history",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), out, "Erase all progress and history? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(out, "Aborted.")
			return err
		}
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.progress.Reset(); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if err := a.store.DeleteSessions(cmd.Context()); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	a.log.Info("progress reset")
	_, err = fmt.Fprintln(out, "Progress reset.")
	return err
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func statusLine(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
