// Package wire provides dependency injection for the stride application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/stride/internal/adapters/sqlite"
	"github.com/example/stride/internal/app"
	"github.com/example/stride/internal/db"
	"github.com/example/stride/internal/ports/primary"
)

var (
	entryService primary.EntryService
	goalService  primary.GoalService
	once         sync.Once
)

// EntryService returns the singleton EntryService instance.
func EntryService() primary.EntryService {
	once.Do(initServices)
	return entryService
}

// GoalService returns the singleton GoalService instance.
func GoalService() primary.GoalService {
	once.Do(initServices)
	return goalService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	occurrenceRepo := sqlite.NewOccurrenceRepository(database)
	goalRepo := sqlite.NewGoalRepository(database)

	entryService = app.NewEntryService(occurrenceRepo)
	goalService = app.NewGoalService(goalRepo, occurrenceRepo)
}
