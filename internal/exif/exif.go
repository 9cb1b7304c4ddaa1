// Package exif corrects photo orientation using the EXIF orientation tag.
// Camera photos are frequently stored rotated with a tag describing how to
// display them upright; we bake the correction in at upload time. This is a
// lossy transform, which is fine for rack photos.
package exif

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// ReadOrientation decodes the EXIF orientation tag (1-8) from an image
// stream. Missing or unreadable EXIF data yields the identity orientation 1.
func ReadOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// Reorient returns img transformed to upright display orientation for the
// given EXIF orientation tag. Tag values outside 1-8 pass through unchanged.
func Reorient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		// mirrored left-right
		return imaging.FlipH(img)
	case 3:
		// upside down
		return imaging.Rotate180(img)
	case 4:
		// mirrored top-bottom
		return imaging.FlipV(img)
	case 5:
		// mirrored top-bottom, then rotated 270 CCW
		return imaging.Rotate270(imaging.FlipV(img))
	case 6:
		// rotated 270 CCW
		return imaging.Rotate270(img)
	case 7:
		// mirrored left-right, then rotated 270 CCW
		return imaging.Rotate270(imaging.FlipH(img))
	case 8:
		// rotated 90 CCW
		return imaging.Rotate90(img)
	default:
		return img
	}
}
