package exif

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// testImage is a 3x2 landscape image with a red pixel in the top-left corner
// and blue everywhere else, so transforms are distinguishable.
func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, blue)
		}
	}
	img.SetNRGBA(0, 0, red)
	return img
}

func sameColor(a color.Color, b color.NRGBA) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestReorient_Identity(t *testing.T) {
	img := testImage()
	got := Reorient(img, 1)
	if got.Bounds() != img.Bounds() {
		t.Errorf("orientation 1 changed bounds: %v", got.Bounds())
	}
	if !sameColor(got.At(0, 0), red) {
		t.Error("orientation 1 moved the marker pixel")
	}
}

// Orientation 6 means the image must be rotated 270 degrees counter-clockwise
// to display upright: a 3x2 landscape becomes 2x3 portrait and the top-left
// marker ends up in the top-right corner.
func TestReorient_Tag6(t *testing.T) {
	got := Reorient(testImage(), 6)
	b := got.Bounds()
	if b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("expected 2x3 result, got %dx%d", b.Dx(), b.Dy())
	}
	if !sameColor(got.At(1, 0), red) {
		t.Error("expected marker pixel at top-right after tag 6 correction")
	}
}

func TestReorient_Tag2MirrorsHorizontally(t *testing.T) {
	got := Reorient(testImage(), 2)
	if !sameColor(got.At(2, 0), red) {
		t.Error("expected marker pixel mirrored to top-right after tag 2 correction")
	}
}

func TestReorient_Tag3IsSelfInverse(t *testing.T) {
	got := Reorient(Reorient(testImage(), 3), 3)
	if !sameColor(got.At(0, 0), red) {
		t.Error("applying a 180 rotation twice should restore the image")
	}
}

func TestReorient_UnknownTagPassesThrough(t *testing.T) {
	img := testImage()
	for _, tag := range []int{0, 9, -1, 100} {
		got := Reorient(img, tag)
		if got != img {
			t.Errorf("tag %d: expected the input image unchanged", tag)
		}
	}
}

func TestReadOrientation_NoExif(t *testing.T) {
	if got := ReadOrientation(bytes.NewReader([]byte("not a jpeg"))); got != 1 {
		t.Errorf("expected default orientation 1, got %d", got)
	}
}
