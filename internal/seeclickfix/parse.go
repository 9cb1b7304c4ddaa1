package seeclickfix

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/royburns/fixcity/internal/geo"
)

// createdAtLayout is the SeeClickFix timestamp format,
// e.g. "11/12/2009 at 05:45PM".
const createdAtLayout = "01/02/2006 at 03:04PM"

// Entry is one raw feed record. Extra feed fields (issue_id, rating, status,
// ...) are ignored.
type Entry struct {
	Summary     string  `json:"summary"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// ParseError marks a feed record that cannot become a rack: a required field
// is missing or the timestamp doesn't match the feed format.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad feed record: %s %s", e.Field, e.Reason)
}

// Record is a validated, domain-ready feed record.
type Record struct {
	Title       string
	Address     string
	Description string
	Date        time.Time
	Location    string // WKT point, SRID 4326
}

// ParseRecord maps one feed entry into a Record. Pure transform, no side
// effects.
func ParseRecord(e Entry) (Record, error) {
	if strings.TrimSpace(e.Summary) == "" {
		return Record{}, &ParseError{Field: "summary", Reason: "is required"}
	}
	if strings.TrimSpace(e.Address) == "" {
		return Record{}, &ParseError{Field: "address", Reason: "is required"}
	}
	if e.CreatedAt == "" {
		return Record{}, &ParseError{Field: "created_at", Reason: "is required"}
	}

	date, err := time.Parse(createdAtLayout, e.CreatedAt)
	if err != nil {
		return Record{}, &ParseError{
			Field:  "created_at",
			Reason: fmt.Sprintf("%q does not match %q", e.CreatedAt, createdAtLayout),
		}
	}

	return Record{
		Title:       norm.NFC.String(strings.TrimSpace(e.Summary)),
		Address:     norm.NFC.String(strings.TrimSpace(e.Address)),
		Description: norm.NFC.String(strings.TrimSpace(e.Description)),
		Date:        date,
		Location:    geo.Point(e.Lng, e.Lat),
	}, nil
}
