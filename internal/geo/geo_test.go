package geo

import "testing"

const squareMP = "MULTIPOLYGON (((0 0, 10 0, 10 10, 0 10, 0 0)))"

func TestContains_Inside(t *testing.T) {
	got, err := Contains(squareMP, Point(5, 5))
	if err != nil {
		t.Fatalf("Contains returned error: %v", err)
	}
	if !got {
		t.Error("expected point inside polygon to be contained")
	}
}

func TestContains_Outside(t *testing.T) {
	got, err := Contains(squareMP, Point(20, 20))
	if err != nil {
		t.Fatalf("Contains returned error: %v", err)
	}
	if got {
		t.Error("expected point outside polygon to not be contained")
	}
}

// A point exactly on the boundary counts as inside.
func TestContains_BoundaryInclusive(t *testing.T) {
	for _, pt := range []string{Point(0, 0), Point(5, 0), Point(10, 10)} {
		got, err := Contains(squareMP, pt)
		if err != nil {
			t.Fatalf("Contains(%s) returned error: %v", pt, err)
		}
		if !got {
			t.Errorf("expected boundary point %s to be contained", pt)
		}
	}
}

func TestContains_PlainPolygon(t *testing.T) {
	got, err := Contains("POLYGON ((0 0, 4 0, 4 4, 0 4, 0 0))", Point(2, 2))
	if err != nil {
		t.Fatalf("Contains returned error: %v", err)
	}
	if !got {
		t.Error("expected containment for plain POLYGON geometry")
	}
}

func TestContains_BadGeometry(t *testing.T) {
	if _, err := Contains("LINESTRING (0 0, 1 1)", Point(0, 0)); err == nil {
		t.Error("expected error for non-polygonal geometry")
	}
	if _, err := Contains("not wkt", Point(0, 0)); err == nil {
		t.Error("expected error for malformed WKT")
	}
}

func TestPointRoundTrip(t *testing.T) {
	pt := Point(-73.9256286621094, 40.7172736790292)
	lng, lat, err := ParsePoint(pt)
	if err != nil {
		t.Fatalf("ParsePoint returned error: %v", err)
	}
	if lng != -73.9256286621094 || lat != 40.7172736790292 {
		t.Errorf("round trip mismatch: got (%v, %v)", lng, lat)
	}
}
