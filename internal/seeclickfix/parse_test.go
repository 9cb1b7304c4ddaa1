package seeclickfix

import (
	"errors"
	"testing"
	"time"
)

func feedEntry() Entry {
	return Entry{
		Summary:     "Junkyard bike rack",
		Address:     "1315 Grand St, New York, NY 11211",
		Description: "I need a bike rack for my mobster fixie crew.",
		CreatedAt:   "11/12/2009 at 05:45PM",
		Lat:         40.7172736790292,
		Lng:         -73.9256286621094,
	}
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord(feedEntry())
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}

	if rec.Title != "Junkyard bike rack" {
		t.Errorf("unexpected title %q", rec.Title)
	}
	if rec.Address != "1315 Grand St, New York, NY 11211" {
		t.Errorf("unexpected address %q", rec.Address)
	}

	want := time.Date(2009, time.November, 12, 17, 45, 0, 0, time.UTC)
	if !rec.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, rec.Date)
	}
	if rec.Location != "POINT (-73.9256286621094 40.7172736790292)" {
		t.Errorf("unexpected location %q", rec.Location)
	}
}

func TestParseRecord_BadTimestamp(t *testing.T) {
	e := feedEntry()
	e.CreatedAt = "2009-11-12T17:45:00Z"
	_, err := ParseRecord(e)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Field != "created_at" {
		t.Errorf("expected created_at to be named, got %q", parseErr.Field)
	}
}

func TestParseRecord_MissingFields(t *testing.T) {
	for _, tc := range []struct {
		field string
		mut   func(*Entry)
	}{
		{"summary", func(e *Entry) { e.Summary = "" }},
		{"address", func(e *Entry) { e.Address = "  " }},
		{"created_at", func(e *Entry) { e.CreatedAt = "" }},
	} {
		e := feedEntry()
		tc.mut(&e)
		_, err := ParseRecord(e)

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected *ParseError, got %v", tc.field, err)
		}
		if parseErr.Field != tc.field {
			t.Errorf("expected field %q to be named, got %q", tc.field, parseErr.Field)
		}
	}
}
