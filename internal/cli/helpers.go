// Package cli implements the stride command tree. Commands resolve the
// clock and timezone once at the boundary and hand plain dates to the
// services.
package cli

import (
	"fmt"
	"time"

	"github.com/example/stride/internal/config"
	"github.com/example/stride/internal/core/dates"
)

// resolveToday returns today's date in the configured timezone.
func resolveToday() (dates.Date, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return dates.Date{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return dates.Date{}, err
	}
	return dates.Today(time.Now(), loc), nil
}

// parseDateFlag parses a --from/--to/--on style flag value. An empty value
// falls back to the given default.
func parseDateFlag(value string, fallback dates.Date) (dates.Date, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := dates.Parse(value)
	if err != nil {
		return dates.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return d, nil
}
