package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stride/internal/core/cadence"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/wire"
)

// GoalCmd returns the goal command
func GoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals and their cadence plans",
		Long:  `Create goals, save their cadence steps and reseed future occurrences.`,
	}

	cmd.AddCommand(goalCreateCmd())
	cmd.AddCommand(goalListCmd())
	cmd.AddCommand(goalShowCmd())
	cmd.AddCommand(goalStepsCmd())
	cmd.AddCommand(goalReseedCmd())
	cmd.AddCommand(goalStatusCmd())

	return cmd
}

func goalCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new goal",
		Long: `Create a new goal with a start and target date.

The halfway checkpoint is fixed at creation and both milestone occurrences
are written immediately.

Examples:
  stride goal create "Run a marathon" --start 2025-01-01 --target 2025-06-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			startFlag, _ := cmd.Flags().GetString("start")
			targetFlag, _ := cmd.Flags().GetString("target")

			today, err := resolveToday()
			if err != nil {
				return err
			}
			start, err := parseDateFlag(startFlag, today)
			if err != nil {
				return err
			}
			if targetFlag == "" {
				return fmt.Errorf("--target is required")
			}
			target, err := parseDateFlag(targetFlag, today)
			if err != nil {
				return err
			}

			resp, err := wire.GoalService().CreateGoal(ctx, primary.CreateGoalRequest{
				Title:      args[0],
				StartDate:  start,
				TargetDate: target,
			})
			if err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}

			fmt.Printf("✓ Created goal %s: %s\n", resp.GoalID, resp.Goal.Title)
			fmt.Printf("  Start: %s  Halfway: %s  Target: %s\n",
				resp.Goal.StartDate, resp.Goal.HalfwayDate, resp.Goal.TargetDate)
			return nil
		},
	}

	cmd.Flags().String("start", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().String("target", "", "target date (YYYY-MM-DD, required)")
	return cmd
}

func goalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := wire.GoalService().ListGoals(context.Background())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Println("No goals yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTART\tHALFWAY\tTARGET")
			for _, g := range goals {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					g.ID, g.Title, g.StartDate, g.HalfwayDate, g.TargetDate)
			}
			return w.Flush()
		},
	}
}

func goalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [goal-id]",
		Short: "Show a goal's plan and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := wire.GoalService().GetGoal(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s\n", goal.ID, goal.Title)
			fmt.Printf("  Start: %s  Halfway: %s  Target: %s\n",
				goal.StartDate, goal.HalfwayDate, goal.TargetDate)
			printSteps("Monthly", goal.MonthlySteps)
			printSteps("Weekly", goal.WeeklySteps)
			printSteps("Daily", goal.DailySteps)
			return nil
		},
	}
}

func printSteps(label string, steps []string) {
	if len(steps) == 0 {
		return
	}
	fmt.Printf("  %s steps:\n", label)
	for _, s := range steps {
		fmt.Printf("    - %s\n", s)
	}
}

func goalStepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps [goal-id]",
		Short: "Replace a goal's cadence steps and reseed",
		Long: `Replace a goal's cadence step lists and reseed future occurrences.

All three buckets are replaced together: a bucket whose flag is omitted is
cleared. Each flag takes a comma-separated list of step descriptions.

Examples:
  stride goal steps GOAL-001 --weekly "Long run" --daily "Stretch,Log miles"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			monthly, _ := cmd.Flags().GetString("monthly")
			weekly, _ := cmd.Flags().GetString("weekly")
			daily, _ := cmd.Flags().GetString("daily")

			today, err := resolveToday()
			if err != nil {
				return err
			}

			resp, err := wire.GoalService().SaveSteps(ctx, primary.SaveStepsRequest{
				GoalID:       args[0],
				Today:        today,
				MonthlySteps: splitSteps(monthly),
				WeeklySteps:  splitSteps(weekly),
				DailySteps:   splitSteps(daily),
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Saved steps for %s (replaced %d occurrences with %d)\n",
				resp.GoalID, resp.Deleted, resp.Inserted)
			return nil
		},
	}

	cmd.Flags().String("monthly", "", "comma-separated monthly steps")
	cmd.Flags().String("weekly", "", "comma-separated weekly steps")
	cmd.Flags().String("daily", "", "comma-separated daily steps")
	return cmd
}

func splitSteps(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func goalReseedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reseed [goal-id]",
		Short: "Regenerate a goal's future occurrences",
		Long: `Regenerate a goal's future cadence occurrences from today through the
target date. Past occurrences and milestones are untouched; reseeding twice
changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := resolveToday()
			if err != nil {
				return err
			}

			resp, err := wire.GoalService().Reseed(context.Background(), args[0], today)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Reseeded %s: deleted %d, inserted %d\n",
				resp.GoalID, resp.Deleted, resp.Inserted)
			return nil
		},
	}
	return cmd
}

func goalStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [goal-id]",
		Short: "Show a goal's lifecycle state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := resolveToday()
			if err != nil {
				return err
			}

			status, err := wire.GoalService().Status(context.Background(), args[0], today)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s %s\n", status.Goal.ID, status.Goal.Title, stateLabel(status.State))
			fmt.Printf("  Start: %s  Halfway: %s  Target: %s\n",
				status.Goal.StartDate, status.Goal.HalfwayDate, status.Goal.TargetDate)
			fmt.Printf("  Future cadence occurrences: %d\n", status.FutureCadence)
			if status.InHalfwayWindow && status.FutureCadence == 0 {
				fmt.Printf("  %s\n", color.New(color.FgYellow).Sprint("! plan is stale, run: stride goal reseed "+status.Goal.ID))
			}
			return nil
		},
	}
}

func stateLabel(s cadence.State) string {
	switch s {
	case cadence.StatePlanning:
		return color.New(color.FgHiBlack).Sprint("[planning]")
	case cadence.StateActive:
		return color.New(color.FgGreen).Sprint("[active]")
	case cadence.StatePastHalfway:
		return color.New(color.FgHiYellow).Sprint("[past halfway]")
	case cadence.StateCompleted:
		return color.New(color.FgHiBlue).Sprint("[completed]")
	default:
		return fmt.Sprintf("[%s]", s)
	}
}
