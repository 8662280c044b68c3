// Command seed loads the demo shows into the database.
package main

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/database"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/seed"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	n, err := seed.Load(ctx, repository.NewShowRepo(db))
	if err != nil {
		log.Fatalf("seed: wrote %d shows before failing: %v", n, err)
	}
	log.Printf("seeded %d shows", n)
}
