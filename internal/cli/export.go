package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/spf13/cobra"

	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/wire"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export occurrences as an iCalendar file",
		Long: `Export stored occurrences in a date range as all-day VEVENTs.

Examples:
  stride export --from 2025-01-01 --to 2025-12-31 -o year.ics
  stride export --goal GOAL-001 -o marathon.ics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			fromFlag, _ := cmd.Flags().GetString("from")
			toFlag, _ := cmd.Flags().GetString("to")
			goalID, _ := cmd.Flags().GetString("goal")
			output, _ := cmd.Flags().GetString("output")

			today, err := resolveToday()
			if err != nil {
				return err
			}
			from, err := parseDateFlag(fromFlag, today)
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toFlag, from.AddYears(1))
			if err != nil {
				return err
			}

			items, err := wire.EntryService().Agenda(ctx, primary.AgendaRequest{From: from, To: to})
			if err != nil {
				return err
			}

			cal := ical.NewCalendar()
			cal.SetMethod(ical.MethodPublish)
			cal.SetProductId("-//stride//scheduling//EN")

			now := time.Now().UTC()
			exported := 0
			for _, item := range items {
				if goalID != "" && item.GoalID != goalID {
					continue
				}
				event := cal.AddEvent(fmt.Sprintf("occurrence-%d@stride", item.ID))
				event.SetDtStampTime(now)
				event.SetSummary(item.Title)
				event.SetAllDayStartAt(time.Date(item.Date.Year, time.Month(item.Date.Month), item.Date.Day, 0, 0, 0, 0, time.UTC))
				if item.Category != "" {
					event.SetProperty(ical.ComponentPropertyCategories, item.Category)
				}
				if item.GoalID != "" {
					event.SetDescription(fmt.Sprintf("Goal %s (%s)", item.GoalID, item.SourceTag))
				}
				exported++
			}

			if output == "" || output == "-" {
				fmt.Print(cal.Serialize())
				return nil
			}
			if err := os.WriteFile(output, []byte(cal.Serialize()), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("✓ Exported %d occurrences to %s\n", exported, output)
			return nil
		},
	}

	cmd.Flags().String("from", "", "range start (YYYY-MM-DD, default today)")
	cmd.Flags().String("to", "", "range end (YYYY-MM-DD, default start plus one year)")
	cmd.Flags().String("goal", "", "only export occurrences belonging to this goal")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	return cmd
}
