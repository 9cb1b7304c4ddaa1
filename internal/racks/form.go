package racks

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// FormErrors maps a field name to its validation messages. It is what the
// submission endpoints render as a 400 body, so messages are user-facing.
type FormErrors map[string][]string

func (e FormErrors) Error() string {
	var parts []string
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e FormErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// RackForm is the boundary validator for rack submissions. Bound marks
// re-validation of an already-stored rack, which skips the attribution check
// (the stored record already carries its provenance).
type RackForm struct {
	Title       string
	Description string
	Address     string
	Email       string
	Date        time.Time
	Location    string
	Verified    bool
	HasPhoto    bool
	SourceID    *uuid.UUID
	Bound       bool
}

// Clean validates the form and returns the cleaned rack, or the field errors.
// Rules:
//   - title, address, date and location are required
//   - verified requires a photo
//   - a free-standing submission needs an email address or a source
func (f *RackForm) Clean() (*Rack, FormErrors) {
	errs := FormErrors{}

	title := norm.NFC.String(strings.TrimSpace(f.Title))
	address := norm.NFC.String(strings.TrimSpace(f.Address))
	description := norm.NFC.String(strings.TrimSpace(f.Description))
	email := strings.TrimSpace(f.Email)

	if title == "" {
		errs.add("title", "This field is required.")
	}
	if address == "" {
		errs.add("address", "This field is required.")
	}
	if f.Date.IsZero() {
		errs.add("date", "This field is required.")
	}
	if f.Location == "" {
		errs.add("location", "This field is required.")
	}

	if f.Verified && !f.HasPhoto {
		errs.add("verified", "You can't mark a rack as verified unless it has a photo")
	}

	if !f.Bound && email == "" && f.SourceID == nil {
		errs.add("email", "Please provide an email address or an attribution source.")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Rack{
		Title:       title,
		Description: description,
		Address:     address,
		Email:       email,
		Date:        f.Date,
		Location:    f.Location,
		Verified:    f.Verified,
		SourceID:    f.SourceID,
	}, nil
}
