package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/stats"
	"github.com/verte-zerg/typemaster/internal/tui"
)

const advanceDelay = 500 * time.Millisecond

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters [chapter]",
		Short: "List chapters, or the levels of one chapter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runChaptersCmd,
	}
}

func runChaptersCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	p := a.progress.Get()
	if len(args) == 0 {
		if _, err := fmt.Fprintf(out, "%s  XP %d  Level %d  Streak %d\n\n", a.settings.SiteName, p.XP, p.Level, p.Streak); err != nil {
			return err
		}
		return stats.RenderChapterTable(out, a.catalog, a.policy, p)
	}
	ch, err := lookupChapter(a.catalog, args[0])
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s %s\n%s\n\n", ch.Icon, ch.Title, ch.Description); err != nil {
		return err
	}
	return stats.RenderLevelTable(out, ch, a.policy, p)
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <chapter> <level>",
		Short: "Play a level",
		Args:  cobra.ExactArgs(2),
		RunE:  runPlayCmd,
	}
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ch, lv, err := resolveLevel(a.catalog, a.policy, a.progress.Get(), args[0], args[1])
	if err != nil {
		return err
	}
	concepts := a.catalog.ConceptsForLevel(ch.ID, lv.ID)
	if len(concepts) == 0 {
		return fmt.Errorf("%s level %d has no concepts", ch.ID, lv.ID)
	}

	snapshot, err := a.recorder.Enter()
	if err != nil {
		a.log.Error("update streak failed", "err", err)
	}
	hud := tui.HUD{XP: snapshot.XP, Level: snapshot.Level, Streak: snapshot.Streak, Muted: a.prefs.Muted()}
	title := fmt.Sprintf("%s %s · %s", ch.Icon, ch.Title, lv.Name)
	opts := a.sessionOptions(os.Stdout)

	var screen interface {
		tea.Model
		Outcome() tui.Outcome
	}
	switch lv.GameMode {
	case model.GameModeRace:
		race, err := session.NewRace(concepts, session.RaceConfig{Duration: a.settings.RaceTime}, opts)
		if err != nil {
			return err
		}
		screen = tui.NewRaceModel(title, race, hud)
	default:
		quiz, err := session.NewQuiz(concepts, session.QuizConfig{
			QuestionTime: a.settings.QuizTime,
			RevealTime:   a.settings.RevealTime,
			AdvanceDelay: advanceDelay,
		}, opts)
		if err != nil {
			return err
		}
		screen = tui.NewQuizModel(title, quiz, hud)
	}

	a.log.Info("level started", "chapter", ch.ID, "level", lv.ID, "mode", string(lv.GameMode))
	if _, err := tea.NewProgram(screen, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	outcome := screen.Outcome()
	if outcome.Action != tui.ActionContinue {
		a.log.Info("level abandoned", "chapter", ch.ID, "level", lv.ID)
		return nil
	}

	key := model.NewLevelKey(ch.ID, lv.ID)
	after, err := a.recorder.Commit(cmd.Context(), key, outcome.Result)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return writeRecap(cmd.OutOrStdout(), a, ch, lv, outcome.Result, after)
}

// writeRecap prints the result and the level's concepts. Unlock state is
// read from the post-commit snapshot.
func writeRecap(w io.Writer, a *app, ch model.Chapter, lv model.Level, res model.GameResult, after model.UserProgress) error {
	lines := []string{
		res.Title,
		fmt.Sprintf("+%d XP  (total %d, level %d)", res.XP, after.XP, after.Level),
	}
	if next, ok := a.catalog.Level(ch.ID, lv.ID+1); ok && a.policy.IsLevelUnlocked(after, ch.ID, next.ID) {
		lines = append(lines, fmt.Sprintf("Unlocked: %s level %d (%s)", ch.ID, next.ID, next.Name))
	} else if a.policy.IsChapterComplete(after, ch.ID) {
		lines = append(lines, fmt.Sprintf("Chapter complete: %s", ch.Title))
	}
	lines = append(lines, "", "Recap")
	for _, c := range a.catalog.ConceptsForLevel(ch.ID, lv.ID) {
		lines = append(lines, fmt.Sprintf("  %s: %s", c.Term, c.Definition))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
