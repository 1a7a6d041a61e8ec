package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/difficulty"
	"github.com/abhisek/codetrain/internal/printer"
	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/ui/components"
	"github.com/abhisek/codetrain/internal/ui/editor"
	"github.com/abhisek/codetrain/internal/ui/prompt"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		plain, _ := cmd.Flags().GetBool("plain")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if cmd.Flags().Changed("cycles") {
			env.cfg.Session.Cycles, _ = cmd.Flags().GetInt("cycles")
			if err := env.cfg.Session.Validate(); err != nil {
				return err
			}
		}

		provider, err := env.provider(ctx)
		if err != nil {
			return err
		}
		svc, err := env.sessionService(ctx, provider)
		if err != nil {
			return err
		}
		if _, err := env.store.Learners().Ensure(ctx, learner); err != nil {
			return fmt.Errorf("register learner: %w", err)
		}

		sess, err := svc.Start(ctx, learner)
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}

		var prompter session.Prompter = editor.Prompter{}
		if plain || !isTerminal(os.Stdin) {
			prompter = prompt.NewPlain(os.Stdin, os.Stdout)
		}

		printer.Info("Session %s for %s: %d tasks\n", sess.ID()[:8], learner, svc.Config().Cycles)
		sum, err := session.NewRunner(sess, prompter, printer.Default).Run(ctx)
		if sum != nil {
			printSummary(sum)
		}
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func printSummary(sum *session.Summary) {
	p := printer.Default
	fmt.Println()
	p.Heading("Session summary")
	p.Info("Completed %d of %d tasks, %d correct, %d skipped, in %s\n",
		sum.CyclesCompleted, sum.CyclesPlanned, sum.Correct, sum.CyclesSkipped,
		sum.Duration.Round(time.Second))

	width := 0
	for _, l := range sum.Levels {
		width = max(width, len(l.Skill))
	}
	for _, l := range sum.Levels {
		bar := components.NewLevelBar(l.Skill, l.Mastery, 60)
		bar.LabelWidth = width
		fmt.Printf("  %s  %s\n", bar.View(), difficulty.TierLabel(l.Mastery))
	}
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() {
	practiceCmd.Flags().StringP("learner", "l", defaultLearner(), "Learner ID")
	practiceCmd.Flags().IntP("cycles", "c", session.DefaultCycles, "Number of tasks in the session")
	practiceCmd.Flags().Bool("plain", false, "Read answers line by line instead of opening the editor")
}

// defaultLearner is the login name, so a single user never passes --learner.
func defaultLearner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
