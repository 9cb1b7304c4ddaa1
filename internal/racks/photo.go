package racks

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/royburns/fixcity/internal/exif"
)

// PhotoDir is where uploaded rack photos land. Override with RACK_PHOTO_DIR.
func PhotoDir() string {
	if dir := os.Getenv("RACK_PHOTO_DIR"); dir != "" {
		return dir
	}
	return "uploads/racks"
}

// SavePhoto stores an uploaded rack photo, baking in the EXIF orientation
// correction so the stored image displays upright everywhere. Re-encoding to
// JPEG is lossy, which is acceptable for rack photos. Returns the stored path.
func SavePhoto(file multipart.File, header *multipart.FileHeader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	orientation := exif.ReadOrientation(bytes.NewReader(data))

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode photo %q: %w", header.Filename, err)
	}
	img = exif.Reorient(img, orientation)

	dir := PhotoDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	path := filepath.Join(dir, uuid.New().String()+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}
	return path, nil
}
