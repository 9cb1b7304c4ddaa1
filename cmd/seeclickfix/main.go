// Polls the SeeClickFix JSON feed once and ingests new bike rack requests.
// Expected to be run from cron at regular intervals; at most one instance at
// a time (the watermark store has no writer lock).
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/royburns/fixcity/internal/db"
	"github.com/royburns/fixcity/internal/racks"
	"github.com/royburns/fixcity/internal/seeclickfix"
)

func main() {
	_ = godotenv.Load(".env.local")

	feedURL := os.Getenv("SEECLICKFIX_JSON_URL")
	if feedURL == "" {
		log.Fatal("SEECLICKFIX_JSON_URL is empty")
	}

	db.Connect()
	racks.Init()

	var watermark seeclickfix.WatermarkStore
	if path := os.Getenv("SEECLICKFIX_WATERMARK_FILE"); path != "" {
		watermark = seeclickfix.NewFileWatermark(path)
	} else {
		dbw := seeclickfix.NewDBWatermark(db.DB, "seeclickfix")
		if err := dbw.Migrate(); err != nil {
			log.Fatal("Failed to migrate watermark table: ", err)
		}
		watermark = dbw
	}

	pipeline := &seeclickfix.Pipeline{
		Client:    seeclickfix.NewClient(),
		Racks:     racks.NewPostgresStore(db.DB),
		Watermark: watermark,
	}

	created, err := pipeline.Run(context.Background(), feedURL)
	if err != nil {
		// Racks created before the failure stay saved; the watermark was not
		// advanced, so the next cron run retries the remainder.
		log.Fatalf("[seeclickfix] run failed after %d racks: %v", len(created), err)
	}
}
