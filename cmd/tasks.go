package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/difficulty"
	"github.com/abhisek/codetrain/internal/printer"
	"github.com/abhisek/codetrain/internal/skills"
	"github.com/abhisek/codetrain/internal/store"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Browse and grow the shared task pool",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored tasks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetString("difficulty")
		limit, _ := cmd.Flags().GetInt("limit")

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		tasks, err := env.store.Tasks().List(cmd.Context(), store.TaskFilter{
			Topic:      topic,
			Difficulty: level,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("%-5s  %-20s  %-6s  %-9s  %-40s  %s\n",
			"ID", "Topic", "Level", "Source", "Title", "Created")
		fmt.Println(strings.Repeat("─", 106))
		for _, t := range tasks {
			fmt.Printf("%-5d  %-20s  %-6s  %-9s  %-40s  %s\n",
				t.ID, t.Topic, t.Difficulty, t.Source, truncate(t.Title, 40),
				t.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var tasksGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a task with the LLM and add it to the pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetString("difficulty")
		ctx := cmd.Context()

		if !skills.Known(topic) {
			return printer.Error(fmt.Sprintf("Unknown topic %q", topic), "Tasks are generated for catalog skills only.", []string{
				"Run 'codetrain skills' to see the available topics",
			})
		}
		if !difficulty.Valid(level) {
			return fmt.Errorf("difficulty must be easy, medium or hard, got %q", level)
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		provider, err := env.provider(ctx)
		if err != nil {
			return err
		}

		printer.Step("Generating a %s %s task with %s\n", level, topic, provider.ModelID())
		t, err := env.catalog(provider).GenerateTask(ctx, topic, level)
		if err != nil {
			return fmt.Errorf("generate task: %w", err)
		}

		printer.Success("Stored task %d\n", t.ID)
		printer.Default.Heading(t.Title)
		fmt.Println(t.Text)
		fmt.Println()
		fmt.Println("Ideal solution:")
		printer.Default.Block(t.IdealSolution)
		for i, tc := range t.TestCases {
			fmt.Printf("  case %d: %s -> %s\n", i+1, tc.Input, tc.Output)
		}
		return nil
	},
}

func init() {
	tasksListCmd.Flags().String("topic", "", "Filter by skill ID")
	tasksListCmd.Flags().String("difficulty", "", "Filter by difficulty (easy, medium, hard)")
	tasksListCmd.Flags().IntP("limit", "n", 20, "Number of tasks to show")

	tasksGenerateCmd.Flags().String("topic", "", "Skill ID to generate for")
	tasksGenerateCmd.Flags().String("difficulty", difficulty.Easy, "Difficulty (easy, medium, hard)")
	_ = tasksGenerateCmd.MarkFlagRequired("topic")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksGenerateCmd)
}
