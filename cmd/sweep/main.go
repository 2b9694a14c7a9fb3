package main

import (
	"context"
	"log"
	"time"

	"markethub-be/internal/bootstrap"
	"markethub-be/internal/config"
	"markethub-be/pkg/database"
)

// Entry point for the daily lifecycle sweep. Invoked by the platform
// scheduler (cron); running it more than once a day is safe.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	defer database.Close(gormDB)

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := container.SweepService.Run(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	log.Printf("Sweep done: scanned=%d warned7=%d warned3=%d suspended=%d deleted=%d signups_purged=%d",
		report.SubscriptionsScanned,
		report.Warned7Day,
		report.Warned3Day,
		report.Suspended,
		report.Deleted,
		report.StaleSignupsCleaned,
	)
}
