package seeclickfix

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/royburns/fixcity/internal/racks"
)

// Pipeline runs one ingestion cycle: fetch → parse → watermark filter →
// persist → advance watermark.
//
// Persistence is one commit per record (the job can be re-run safely after a
// partial failure): a storage error aborts the run with the earlier racks
// durably saved and the watermark untouched, so the failed and remaining
// records are picked up again on the next poll.
type Pipeline struct {
	Client    *Client
	Racks     racks.Store
	Watermark WatermarkStore
}

// Run ingests the feed at feedURL and returns the IDs of the racks created.
//
// Records whose timestamp is at or before the current watermark are
// duplicates and are skipped (strict comparison: equal timestamps count as
// seen). A record that fails to parse is logged and skipped; its timestamp
// never feeds the new watermark, so it is retried next run. The watermark
// only ever moves forward: an empty or all-duplicate feed leaves it
// unchanged.
func (p *Pipeline) Run(ctx context.Context, feedURL string) ([]uuid.UUID, error) {
	entries, err := p.Client.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	latest, err := p.Watermark.Get()
	if err != nil {
		return nil, err
	}

	var created []uuid.UUID
	maxSeen := latest
	for _, entry := range entries {
		rec, err := ParseRecord(entry)
		if err != nil {
			log.Printf("[seeclickfix] skipping malformed record: %v", err)
			continue
		}
		if !rec.Date.After(latest) {
			continue
		}

		rack := rec.Rack()
		if err := p.Racks.CreateRack(ctx, rack); err != nil {
			return created, fmt.Errorf("save rack %q: %w", rec.Title, err)
		}
		created = append(created, rack.ID)

		if rec.Date.After(maxSeen) {
			maxSeen = rec.Date
		}
	}

	if maxSeen.After(latest) {
		if err := p.Watermark.Set(maxSeen); err != nil {
			return created, fmt.Errorf("advance watermark: %w", err)
		}
	}

	log.Printf("[seeclickfix] run complete: %d entries, %d new racks, watermark %s",
		len(entries), len(created), maxSeen.Format(time.RFC3339))
	return created, nil
}

// Rack converts a parsed feed record into a rack entity. Feed racks carry no
// photo or attribution; they arrive unverified and unlocked.
func (rec Record) Rack() *racks.Rack {
	return &racks.Rack{
		Title:       rec.Title,
		Description: rec.Description,
		Address:     rec.Address,
		Date:        rec.Date,
		Location:    rec.Location,
	}
}
