package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a learner's progress report",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		noLLM, _ := cmd.Flags().GetBool("no-llm")
		asJSON, _ := cmd.Flags().GetBool("json")
		ctx := cmd.Context()

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		m, err := env.masteryService().Load(ctx, learner)
		if err != nil {
			return err
		}
		stats, err := env.store.Attempts().Stats(ctx, learner)
		if err != nil {
			return fmt.Errorf("load attempts: %w", err)
		}

		levels := m.Levels()
		r := report.Aggregate(report.FromStats(learner, stats, levels))
		if !noLLM {
			renderer := report.NewRenderer(env.optionalProvider(ctx), report.DefaultRendererConfig())
			r.HumanFeedback = renderer.Render(ctx, r)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		fmt.Println(report.Card(r, levels))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("learner", "l", defaultLearner(), "Learner ID")
	reportCmd.Flags().Bool("no-llm", false, "Skip the written feedback paragraph")
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
