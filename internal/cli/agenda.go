package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/wire"
)

// AgendaCmd returns the agenda command
func AgendaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List upcoming occurrences",
		Long: `List stored occurrences in a date range.

Without flags the range runs from today through the configured horizon
(agenda_days, default 7).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			fromFlag, _ := cmd.Flags().GetString("from")
			toFlag, _ := cmd.Flags().GetString("to")

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			today, err := resolveToday()
			if err != nil {
				return err
			}
			from, err := parseDateFlag(fromFlag, today)
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toFlag, from.AddDays(cfg.AgendaDays-1))
			if err != nil {
				return err
			}

			items, err := wire.EntryService().Agenda(ctx, primary.AgendaRequest{From: from, To: to})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Printf("Nothing scheduled between %s and %s\n", from, to)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTITLE\tCATEGORY\tPRIORITY\tSOURCE")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					item.Date, item.Title, item.Category,
					priorityLabel(item.Priority), sourceLabel(item))
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("from", "", "range start (YYYY-MM-DD, default today)")
	cmd.Flags().String("to", "", "range end (YYYY-MM-DD, default start plus agenda horizon)")
	return cmd
}

func priorityLabel(p int) string {
	switch p {
	case 1:
		return color.New(color.FgRed).Sprint("high")
	case 2:
		return "normal"
	case 3:
		return color.New(color.FgHiBlack).Sprint("low")
	default:
		return ""
	}
}

func sourceLabel(o *primary.Occurrence) string {
	if o.GoalID == "" {
		return o.SourceTag
	}
	return color.New(color.FgCyan).Sprintf("%s (%s)", o.SourceTag, o.GoalID)
}
