package main

import (
	"context"
	"log"
	"os"

	"carsure/internal/database"
	"carsure/internal/modules/appointment"
	"carsure/internal/modules/notification"
	"carsure/internal/repository"

	"github.com/joho/godotenv"
)

// One-shot expiry sweep over all owners, intended for cron. The API server
// also sweeps on a ticker and on seller dashboard entry; the sweep is
// idempotent so the paths can overlap safely.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	rdvRepo := repository.NewAppointmentRepository(db)
	workshopRepo := repository.NewWorkshopRepository(db)
	carRepo := repository.NewCarRepository(db)
	notifService := notification.NewService(notification.NewRepository(db), nil)

	svc := appointment.NewService(rdvRepo, workshopRepo, carRepo, notifService)

	cancelled, err := svc.SweepExpired(context.Background(), 0)
	if err != nil {
		log.Fatalf("expiry sweep failed: %v", err)
	}

	log.Printf("expiry sweep completed: cancelled=%d", len(cancelled))
}
