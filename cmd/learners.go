package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var learnersCmd = &cobra.Command{
	Use:   "learners",
	Short: "List learners, most recently seen first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		learners, err := env.store.Learners().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list learners: %w", err)
		}
		if len(learners) == 0 {
			fmt.Println("No learners yet.")
			return nil
		}

		fmt.Printf("%-24s  %-19s  %s\n", "Learner", "First seen", "Last seen")
		fmt.Println(strings.Repeat("─", 66))
		for _, l := range learners {
			fmt.Printf("%-24s  %-19s  %s\n",
				truncate(l.ExternalID, 24),
				l.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				l.LastSeenAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}
