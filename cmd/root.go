package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/config"
	"github.com/abhisek/codetrain/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "codetrain",
	Short: "Adaptive Python practice trainer",
	Long: "codetrain picks the Python skill you most need to practice, hands you a task at\n" +
		"the right difficulty, reviews your solution and tracks your mastery over time.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CODETRAIN_DB env var)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(masteryCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(learnersCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CODETRAIN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.DBPath
	}
	if p != "" {
		if err := store.EnsureDir(p); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
		return p, nil
	}
	return store.DefaultDBPath()
}
