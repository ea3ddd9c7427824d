package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/lesson-scheduler/pkg/core/services"
)

// ListTeachersCmd creates the listTeachers command
func ListTeachersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listTeachers",
		Short: "List teachers with their working hours and breaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := app.Source()
			if err != nil {
				return err
			}

			teachers, err := services.ListTeachers(app.Ctx, source)
			if err != nil {
				return fmt.Errorf("failed to list teachers: %w", err)
			}

			fmt.Printf("\nFound %d teachers:\n\n", len(teachers))
			for _, t := range teachers {
				newStudents := ""
				if !t.AcceptsNewStudents {
					newStudents = " [current students only]"
				}
				fmt.Printf("- %s (%s) - %s%s\n", t.Name, strings.Join(t.Instruments, ", "), t.Location, newStudents)

				for _, wd := range t.Days {
					fmt.Printf("    %-9s %s-%s", wd.Day, wd.Start, wd.End)
					for _, br := range wd.Breaks {
						fmt.Printf("  break %d min in %s-%s", br.MinQuarters*15, br.Start, br.End)
					}
					fmt.Println()
				}
			}

			return nil
		},
	}
}
