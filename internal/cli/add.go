package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/wire"
)

// AddCmd returns the add command
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a task from one line of free text",
		Long: `Add a task from one line of free text.

The text may carry a category tag, a priority tag, a date expression and a
recurrence clause; whatever is left over becomes the title.

Examples:
  stride add Dentist next Tue '#health' '!high'
  stride add Pay rent 2025-10-01 every month
  stride add Long run every mon,wed,fri for 12 times`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			onFlag, _ := cmd.Flags().GetString("on")

			today, err := resolveToday()
			if err != nil {
				return err
			}
			reference, err := parseDateFlag(onFlag, today)
			if err != nil {
				return err
			}

			resp, err := wire.EntryService().AddEntry(ctx, primary.AddEntryRequest{
				Text:          strings.Join(args, " "),
				ReferenceDate: reference,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Added %q (%d occurrence", resp.Title, resp.Inserted)
			if resp.Inserted != 1 {
				fmt.Print("s")
			}
			fmt.Println(")")
			if resp.Category != "" {
				fmt.Printf("  Category: %s\n", resp.Category)
			}
			if resp.Priority != 0 {
				fmt.Printf("  Priority: %s\n", priorityLabel(int(resp.Priority)))
			}
			fmt.Printf("  First: %s", resp.Occurrences[0])
			if len(resp.Occurrences) > 1 {
				fmt.Printf("  Last: %s", resp.Occurrences[len(resp.Occurrences)-1])
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("on", "", "reference date for relative expressions (YYYY-MM-DD, default today)")
	return cmd
}
