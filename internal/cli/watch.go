package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the reseed watcher",
		Long: `Run the reseed watcher in the foreground.

On the configured schedule (watch_schedule, default @hourly) every goal is
checked: a goal past its halfway checkpoint with no future cadence
occurrence left is reseeded. Goals with a live plan are untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleFlag, _ := cmd.Flags().GetString("schedule")

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			schedule := cfg.WatchSchedule
			if scheduleFlag != "" {
				schedule = scheduleFlag
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			c := cron.New(cron.WithLocation(loc))
			if _, err := c.AddFunc(schedule, checkAllGoals); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}

			// Run one sweep immediately so a stale plan is fixed on startup,
			// not an hour later.
			checkAllGoals()

			c.Start()
			fmt.Printf("Watching goals on schedule %q (ctrl-c to stop)\n", schedule)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().String("schedule", "", "cron schedule override (default from config)")
	return cmd
}

func checkAllGoals() {
	ctx := context.Background()

	today, err := resolveToday()
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}

	goals, err := wire.GoalService().ListGoals(ctx)
	if err != nil {
		log.Printf("watch: failed to list goals: %v", err)
		return
	}

	for _, g := range goals {
		resp, err := wire.GoalService().CheckAndReseed(ctx, g.ID, today)
		if err != nil {
			log.Printf("watch: %v", err)
			continue
		}
		if resp != nil {
			log.Printf("watch: reseeded %s (deleted %d, inserted %d)", resp.GoalID, resp.Deleted, resp.Inserted)
		}
	}
}
