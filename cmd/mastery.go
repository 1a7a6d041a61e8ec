package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/difficulty"
)

var masteryCmd = &cobra.Command{
	Use:   "mastery",
	Short: "Show a learner's mastery per skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		m, err := env.masteryService().Load(cmd.Context(), learner)
		if err != nil {
			return err
		}
		levels := m.Levels()
		if len(levels) == 0 {
			fmt.Printf("No mastery recorded for %s yet.\n", learner)
			return nil
		}

		fmt.Printf("%-22s  %7s  %-12s  %-10s  %s\n",
			"Skill", "Mastery", "Tier", "Band", "Task levels")
		fmt.Println(strings.Repeat("─", 76))
		for _, l := range levels {
			band := difficulty.ForMastery(l.Mastery)
			fmt.Printf("%-22s  %7.3f  %-12s  %.1f-%.1f    %s\n",
				l.Skill, l.Mastery, difficulty.TierLabel(l.Mastery),
				band.Min, band.Max, strings.Join(difficulty.StoreLevels(l.Mastery), ","))
		}
		return nil
	},
}

func init() {
	masteryCmd.Flags().StringP("learner", "l", defaultLearner(), "Learner ID")
}
