package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/lesson-scheduler/pkg/core/scheduler"
	"github.com/jakechorley/lesson-scheduler/pkg/core/services"
	"github.com/jakechorley/lesson-scheduler/pkg/metrics"
	"github.com/jakechorley/lesson-scheduler/pkg/render"
)

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	var overrides services.GenerateOverrides

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign students to teachers and print the best timetable found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := app.Source()
			if err != nil {
				return err
			}

			store, closeStore, err := app.Store()
			if err != nil {
				return err
			}
			defer closeStore()

			var observer scheduler.TrialObserver
			var trialMetrics *metrics.TrialMetrics
			if app.Cfg.Output.MetricsFile != "" {
				trialMetrics, err = metrics.NewTrialMetrics()
				if err != nil {
					return fmt.Errorf("failed to create metrics: %w", err)
				}
				observer = trialMetrics
			}

			result, err := services.GenerateTimetable(app.Ctx, source, store, app.Cfg, overrides, observer, app.Logger)
			if err != nil {
				return err
			}

			if trialMetrics != nil {
				if err := trialMetrics.WriteTextfile(app.Cfg.Output.MetricsFile); err != nil {
					return err
				}
				app.Logger.Info("Metrics written", zap.String("path", app.Cfg.Output.MetricsFile))
			}

			outcome := result.Outcome
			best := outcome.Best

			// Display results
			fmt.Printf("\n✓ Timetable generated!\n\n")
			fmt.Printf("Trials:      %d (%s)\n", outcome.Trials, outcome.StopReason)
			fmt.Printf("Seed:        %d\n", outcome.Seed)
			fmt.Printf("Best trial:  #%d\n", best.Index)
			fmt.Printf("Elapsed:     %s\n", outcome.Elapsed.Round(time.Millisecond))

			if err := render.WriteTimetable(os.Stdout, best.Timetable); err != nil {
				return fmt.Errorf("failed to print timetable: %w", err)
			}
			render.WriteUnassigned(os.Stdout, best.Records)
			render.WriteStats(os.Stdout, best.Stats)

			if len(outcome.Warnings) > 0 {
				fmt.Printf("\n⚠️  %d input warnings:\n", len(outcome.Warnings))
				for _, warning := range outcome.Warnings {
					fmt.Printf("  - %s\n", warning)
				}
			}

			if len(best.BreakViolations) > 0 {
				fmt.Printf("\n⚠️  %d break violations in the best trial\n", len(best.BreakViolations))
			}

			for _, file := range result.Files {
				fmt.Printf("\nWritten: %s", file)
			}
			if result.RunID != "" {
				fmt.Printf("\nStored run: %s", result.RunID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().DurationVar(&overrides.TimeBudget, "budget", 0, "Time budget for the search (overrides scheduling.timeBudget)")
	cmd.Flags().IntVar(&overrides.MaxTrials, "trials", 0, "Maximum number of trials (overrides scheduling.maxTrials)")
	cmd.Flags().Int64Var(&overrides.Seed, "seed", 0, "Seed for shuffled trials (overrides scheduling.seed)")
	cmd.Flags().IntVar(&overrides.Workers, "workers", 0, "Concurrent trial workers (overrides scheduling.workers)")

	return cmd
}
