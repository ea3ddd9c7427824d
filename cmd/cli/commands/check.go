package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/lesson-scheduler/pkg/core/services"
)

// CheckCmd creates the check command
func CheckCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the teacher and student tables without scheduling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := app.Source()
			if err != nil {
				return err
			}

			result, err := services.CheckInputs(app.Ctx, source, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n📋 Input check\n\n")
			fmt.Printf("Teachers:          %d\n", len(result.Teachers))
			fmt.Printf("Students:          %d (%d want a lesson)\n", result.Students, result.WantingLesson)
			fmt.Printf("Forced placements: %d\n", result.Forced)
			fmt.Printf("Sibling pairings:  %d\n", result.SiblingPairs)

			if len(result.Warnings) == 0 && len(result.BreakViolations) == 0 {
				fmt.Printf("\n✓ No problems found\n")
				return nil
			}

			if len(result.Warnings) > 0 {
				fmt.Printf("\n⚠️  Warnings (%d):\n", len(result.Warnings))
				for _, warning := range result.Warnings {
					fmt.Printf("  - %s\n", warning)
				}
			}

			if len(result.BreakViolations) > 0 {
				fmt.Printf("\n⚠️  Forced placements leave these breaks too short (%d):\n", len(result.BreakViolations))
				for _, v := range result.BreakViolations {
					fmt.Printf("  ✗ %s %s %s-%s: %d free quarter-hours, %d required\n",
						v.Teacher, v.Day, v.Break.Start, v.Break.End, v.LongestFree, v.RequiredFree)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
