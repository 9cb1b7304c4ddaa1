package seeclickfix

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultWatermark is the start-of-service date used when no watermark has
// ever been recorded: every feed record is newer than it.
var DefaultWatermark = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)

// WatermarkStore durably records the timestamp of the latest feed record
// processed, so later runs can drop everything already seen. Not safe for
// concurrent writers; run at most one ingestion cycle at a time.
type WatermarkStore interface {
	// Get returns the recorded watermark, or DefaultWatermark if none has
	// ever been written. A missing value is a modeled condition, not an error.
	Get() (time.Time, error)
	// Set overwrites the watermark.
	Set(t time.Time) error
}

// FileWatermark keeps the watermark as one RFC3339 value in a sidecar file,
// for deployments where the ingest job has a stable working directory.
type FileWatermark struct {
	Path string
}

func NewFileWatermark(path string) *FileWatermark {
	return &FileWatermark{Path: path}
}

func (f *FileWatermark) Get() (time.Time, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultWatermark, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark file: %w", err)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse watermark file %s: %w", f.Path, err)
	}
	return t, nil
}

func (f *FileWatermark) Set(t time.Time) error {
	if err := os.WriteFile(f.Path, []byte(t.Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write watermark file: %w", err)
	}
	return nil
}

type watermarkRow struct {
	Source     string    `gorm:"primaryKey"`
	LatestSeen time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

func (watermarkRow) TableName() string { return "bmabr.ingest_watermarks" }

// DBWatermark keeps the watermark in a single keyed row, for deployments
// where the job has no stable disk.
type DBWatermark struct {
	db     *gorm.DB
	source string
}

func NewDBWatermark(db *gorm.DB, source string) *DBWatermark {
	return &DBWatermark{db: db, source: source}
}

// Migrate creates the watermark table.
func (d *DBWatermark) Migrate() error {
	return d.db.AutoMigrate(&watermarkRow{})
}

func (d *DBWatermark) Get() (time.Time, error) {
	var row watermarkRow
	err := d.db.First(&row, "source = ?", d.source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultWatermark, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark row: %w", err)
	}
	return row.LatestSeen, nil
}

func (d *DBWatermark) Set(t time.Time) error {
	row := watermarkRow{Source: d.source, LatestSeen: t}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{"latest_seen", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write watermark row: %w", err)
	}
	return nil
}
