// Package seeds loads the static administrative-region reference data
// (boroughs, community boards, neighborhoods) from YAML files into the
// database. Seeding is idempotent: existing rows are left alone.
package seeds

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"github.com/royburns/fixcity/internal/db"
	"github.com/royburns/fixcity/internal/racks"
)

// SeedFile is the on-disk YAML shape consumed by SeedAll and cmd/seed.
type SeedFile struct {
	Boroughs []racks.Borough `yaml:"boroughs"`
	Boards   []BoardSeed     `yaml:"community_boards"`
	Hoods    []HoodSeed      `yaml:"neighborhoods"`
}

type BoardSeed struct {
	Gid       int    `yaml:"gid"`
	BoroCD    int    `yaml:"borocd"`
	Board     int    `yaml:"board"`
	BoroughID int    `yaml:"borough_id"`
	TheGeom   string `yaml:"the_geom"`
}

type HoodSeed struct {
	Gid      int    `yaml:"gid"`
	RegionID int    `yaml:"regionid"`
	State    string `yaml:"state"`
	County   string `yaml:"county"`
	City     string `yaml:"city"`
	Name     string `yaml:"name"`
	TheGeom  string `yaml:"the_geom"`
}

// Load reads and parses a seed YAML file.
func Load(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &sf, nil
}

func SeedAll(path string) error {
	sf, err := Load(path)
	if err != nil {
		return err
	}
	if err := seedBoroughs(sf.Boroughs); err != nil {
		return err
	}
	if err := seedBoards(sf.Boards); err != nil {
		return err
	}
	return seedNeighborhoods(sf.Hoods)
}

func seedBoroughs(boroughs []racks.Borough) error {
	for _, b := range boroughs {
		var existing racks.Borough
		err := db.DB.First(&existing, "borocode = ?", b.BoroCode).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.DB.Create(&b).Error; err != nil {
			return fmt.Errorf("seed borough %d: %w", b.BoroCode, err)
		}
		log.Printf("[seeds] created borough %d %s", b.BoroCode, b.BoroName)
	}
	return nil
}

func seedBoards(boards []BoardSeed) error {
	for _, b := range boards {
		// Raw insert so the WKT boundary lands as PostGIS geometry.
		err := db.DB.Exec(`
			INSERT INTO bmabr.community_boards (gid, borocd, board, borough_id, the_geom)
			VALUES (?, ?, ?, ?, ST_SetSRID(ST_GeomFromText(?), 4326))
			ON CONFLICT (gid) DO NOTHING`,
			b.Gid, b.BoroCD, b.Board, b.BoroughID, b.TheGeom,
		).Error
		if err != nil {
			return fmt.Errorf("seed community board %d: %w", b.Gid, err)
		}
	}
	return nil
}

func seedNeighborhoods(hoods []HoodSeed) error {
	for _, h := range hoods {
		err := db.DB.Exec(`
			INSERT INTO bmabr.neighborhoods (gid, region_id, state, county, city, name, the_geom)
			VALUES (?, ?, ?, ?, ?, ?, ST_SetSRID(ST_GeomFromText(?), 4326))
			ON CONFLICT (gid) DO NOTHING`,
			h.Gid, h.RegionID, h.State, h.County, h.City, h.Name, h.TheGeom,
		).Error
		if err != nil {
			return fmt.Errorf("seed neighborhood %q: %w", h.Name, err)
		}
	}
	return nil
}
