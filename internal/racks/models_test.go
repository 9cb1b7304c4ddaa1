package racks

import (
	"context"
	"testing"
	"time"

	"github.com/royburns/fixcity/internal/geo"
)

var testEpoch = time.Unix(0, 0).UTC()

const testBoundary = "MULTIPOLYGON (((0 0, 10 0, 10 10, 0 10, 0 0)))"

func TestCommunityBoardString(t *testing.T) {
	cb := CommunityBoard{
		Gid:     1,
		BoroCD:  99,
		Board:   123,
		Borough: Borough{BoroCode: 5, BoroName: "Staten Island"},
	}
	if got := cb.String(); got != "Staten Island Community Board 123" {
		t.Errorf("unexpected board label: %q", got)
	}
}

func TestRackDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rack := &Rack{Address: "somewhere", Date: testEpoch, Location: geo.Point(1, 2)}
	if err := store.CreateRack(ctx, rack); err != nil {
		t.Fatalf("CreateRack failed: %v", err)
	}
	if rack.Verified {
		t.Error("new rack should not be verified")
	}
	if rack.Locked {
		t.Error("new rack should not be locked")
	}
}

func TestCommunityBoardRacks_BoundaryInclusive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cb := &CommunityBoard{Gid: 1, TheGeom: testBoundary}
	if err := store.CreateCommunityBoard(ctx, cb); err != nil {
		t.Fatalf("CreateCommunityBoard failed: %v", err)
	}

	inside := &Rack{Title: "inside", Date: testEpoch, Location: geo.Point(5, 5)}
	edge := &Rack{Title: "edge", Date: testEpoch, Location: geo.Point(0, 0)}
	outside := &Rack{Title: "outside", Date: testEpoch, Location: geo.Point(20, 20)}
	for _, r := range []*Rack{inside, edge, outside} {
		if err := store.CreateRack(ctx, r); err != nil {
			t.Fatalf("CreateRack failed: %v", err)
		}
	}

	got, err := cb.Racks(ctx, store)
	if err != nil {
		t.Fatalf("Racks failed: %v", err)
	}

	ids := map[string]bool{}
	for _, r := range got {
		ids[r.Title] = true
	}
	if len(got) != 2 || !ids["inside"] || !ids["edge"] {
		t.Errorf("expected inside and edge racks, got %v", ids)
	}
}

func TestChildSource_Twitter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ts := &TwitterSource{User: "joe", StatusID: "99"}
	if err := store.CreateTwitterSource(ctx, ts); err != nil {
		t.Fatalf("CreateTwitterSource failed: %v", err)
	}

	variant, err := store.ChildSource(ctx, ts.SourceID)
	if err != nil {
		t.Fatalf("ChildSource failed: %v", err)
	}
	twitter, ok := variant.(*TwitterSource)
	if !ok {
		t.Fatalf("expected *TwitterSource, got %T", variant)
	}
	if twitter.User != "joe" || twitter.StatusID != "99" {
		t.Errorf("variant fields not preserved: %+v", twitter)
	}
	if variant.SourceName() != "twitter" {
		t.Errorf("unexpected source name %q", variant.SourceName())
	}
}

func TestChildSource_GenericFallback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := &Source{Name: "web"}
	if err := store.CreateSource(ctx, src); err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}

	variant, err := store.ChildSource(ctx, src.ID)
	if err != nil {
		t.Fatalf("ChildSource failed: %v", err)
	}
	if _, ok := variant.(*Source); !ok {
		t.Fatalf("expected generic *Source, got %T", variant)
	}
	if variant.SourceName() != "web" {
		t.Errorf("unexpected source name %q", variant.SourceName())
	}
}
