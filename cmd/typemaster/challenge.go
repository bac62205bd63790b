package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/session"
	"github.com/verte-zerg/typemaster/internal/tui"
)

var challengeRounds int

func newChallengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Play an AI challenge over unlocked concepts",
	}
	quiz := &cobra.Command{
		Use:   "quiz",
		Short: "Answer generated multiple-choice questions",
		Args:  cobra.NoArgs,
		RunE:  runChallengeQuizCmd,
	}
	quiz.Flags().IntVar(&challengeRounds, "rounds", session.DefaultAIQuizConfig().Rounds, "questions per run")
	explain := &cobra.Command{
		Use:   "explain",
		Short: "Type a term, then read a generated explanation",
		Args:  cobra.NoArgs,
		RunE:  runChallengeExplainCmd,
	}
	cmd.AddCommand(quiz, explain)
	return cmd
}

// enterChallenge checks the API key and the unlocked pool before any screen is shown.
func enterChallenge(ctx context.Context, a *app) (tui.HUD, error) {
	if err := session.RequireCredential(ctx, a.creds, a.client); err != nil {
		return tui.HUD{}, fmt.Errorf("%w: run `typemaster key set` first", err)
	}
	snapshot, err := a.recorder.Enter()
	if err != nil {
		a.log.Error("update streak failed", "err", err)
	}
	return tui.HUD{XP: snapshot.XP, Level: snapshot.Level, Streak: snapshot.Streak, Muted: a.prefs.Muted()}, nil
}

func runChallengeQuizCmd(cmd *cobra.Command, _ []string) error {
	if challengeRounds <= 0 {
		return errors.New("--rounds must be positive")
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	hud, err := enterChallenge(ctx, a)
	if err != nil {
		return err
	}
	pool := a.policy.UnlockedConcepts(a.progress.Get())
	quiz, err := session.NewAIQuiz(ctx, pool, a.generator(), session.AIQuizConfig{
		Rounds:     challengeRounds,
		RevealTime: a.settings.RevealTime,
	}, a.sessionOptions(os.Stdout))
	if err != nil {
		return err
	}

	screen := tui.NewAIQuizModel(quiz, hud)
	if _, err := tea.NewProgram(screen, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return commitChallenge(cmd, a, screen.Outcome())
}

func runChallengeExplainCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	hud, err := enterChallenge(ctx, a)
	if err != nil {
		return err
	}
	pool := a.policy.UnlockedConcepts(a.progress.Get())
	explain, err := session.NewExplain(ctx, pool, a.generator(), a.sessionOptions(os.Stdout))
	if err != nil {
		return err
	}

	screen := tui.NewExplainModel(explain, hud)
	if _, err := tea.NewProgram(screen, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return commitChallenge(cmd, a, screen.Outcome())
}

func commitChallenge(cmd *cobra.Command, a *app, outcome tui.Outcome) error {
	if outcome.Action != tui.ActionContinue {
		return nil
	}
	after, err := a.recorder.CommitChallenge(cmd.Context(), outcome.Result)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n+%d XP  (total %d, level %d)\n", outcome.Result.Title, outcome.Result.XP, after.XP, after.Level)
	return err
}
