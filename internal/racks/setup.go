package racks

import (
	"log"

	"github.com/royburns/fixcity/internal/db"
)

// Init ensures the bmabr schema and tables exist and wires the Postgres store
// as the active datastore.
func Init() {
	if err := db.EnsureSchema(db.DB, "bmabr"); err != nil {
		log.Fatal("Failed to ensure schema bmabr: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension: ", err)
	}
	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS postgis`).Error; err != nil {
		log.Fatal("Failed to enable postgis extension: ", err)
	}

	if err := db.DB.AutoMigrate(
		&Borough{},
		&CommunityBoard{},
		&Neighborhood{},
		&Source{},
		&TwitterSource{},
		&BulkOrder{},
		&Rack{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	store = NewPostgresStore(db.DB)
}

// UseStore swaps the active datastore. Tests use this with a MemoryStore.
func UseStore(s Store) {
	store = s
}
