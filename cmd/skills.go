package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the practisable skills (optionally filtered by group)",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		ordered, _ := cmd.Flags().GetBool("prerequisites-first")

		var list []skills.Skill
		switch {
		case group != "" && ordered:
			return fmt.Errorf("use --group or --prerequisites-first, not both")
		case group != "":
			list = skills.ByGroup(skills.Group(group))
			if len(list) == 0 {
				return fmt.Errorf("no skills found for group %q", group)
			}
		case ordered:
			list = skills.TopologicalOrder()
		default:
			list = skills.All()
		}

		fmt.Printf("%-22s  %-24s  %-26s  %s\n",
			"ID", "Name", "Group", "Requires")
		fmt.Println(strings.Repeat("─", 96))

		for _, s := range list {
			fmt.Printf("%-22s  %-24s  %-26s  %s\n",
				s.ID, truncate(s.Name, 24),
				skills.GroupDisplayName(s.Group), strings.Join(s.Prerequisites, ", "))
		}

		fmt.Printf("\n%d skills\n", len(list))
		return nil
	},
}

func init() {
	skillsCmd.Flags().String("group", "", "Filter by group (data-structures, control-and-functions, idioms)")
	skillsCmd.Flags().Bool("prerequisites-first", false, "Order skills so prerequisites come first")
}
