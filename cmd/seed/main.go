// Seeds administrative-region reference data straight into Postgres.
// Unlike the server-side seeds package, this works over a bare database/sql
// connection so it can run from CI or a laptop without the app booted:
//
//	go run ./cmd/seed -dsn "$DATABASE_URL" -file internal/seeds/data/regions.yaml
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/royburns/fixcity/internal/seeds"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres DSN")
	file := flag.String("file", "internal/seeds/data/regions.yaml", "seed YAML file")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing -dsn (or DATABASE_URL)")
	}

	sf, err := seeds.Load(*file)
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer db.Close()

	if err := run(db, sf); err != nil {
		log.Fatal(err)
	}
	log.Printf("[seed] done: %d boroughs, %d boards, %d neighborhoods",
		len(sf.Boroughs), len(sf.Boards), len(sf.Hoods))
}

func run(db *sql.DB, sf *seeds.SeedFile) error {
	for _, b := range sf.Boroughs {
		_, err := db.Exec(`
			INSERT INTO bmabr.boroughs (borocode, boroname)
			VALUES ($1, $2)
			ON CONFLICT (borocode) DO NOTHING`,
			b.BoroCode, b.BoroName)
		if err != nil {
			return fmt.Errorf("insert borough %d: %w", b.BoroCode, err)
		}
	}

	for _, cb := range sf.Boards {
		_, err := db.Exec(`
			INSERT INTO bmabr.community_boards (gid, borocd, board, borough_id, the_geom)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromText($5), 4326))
			ON CONFLICT (gid) DO NOTHING`,
			cb.Gid, cb.BoroCD, cb.Board, cb.BoroughID, cb.TheGeom)
		if err != nil {
			return fmt.Errorf("insert community board %d: %w", cb.Gid, err)
		}
	}

	for _, h := range sf.Hoods {
		_, err := db.Exec(`
			INSERT INTO bmabr.neighborhoods (gid, region_id, state, county, city, name, the_geom)
			VALUES ($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_GeomFromText($7), 4326))
			ON CONFLICT (gid) DO NOTHING`,
			h.Gid, h.RegionID, h.State, h.County, h.City, h.Name, h.TheGeom)
		if err != nil {
			return fmt.Errorf("insert neighborhood %q: %w", h.Name, err)
		}
	}

	return nil
}
