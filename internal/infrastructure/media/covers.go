// Package media normalizes uploaded book cover images.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// CoverProcessor decodes an uploaded image, downscales it to a maximum
// width and re-encodes it as WebP under the uploads directory.
type CoverProcessor struct {
	uploadsDir string
	maxWidth   int
	quality    float32
}

// NewCoverProcessor creates a cover processor writing into uploadsDir.
func NewCoverProcessor(uploadsDir string, maxWidth, quality int) *CoverProcessor {
	return &CoverProcessor{
		uploadsDir: uploadsDir,
		maxWidth:   maxWidth,
		quality:    float32(quality),
	}
}

// SaveCover reads one uploaded image (PNG, JPEG, GIF, BMP or TIFF) and
// writes the normalized WebP file. It returns the public URL path under
// /uploads.
func (p *CoverProcessor) SaveCover(r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(p.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filename := fmt.Sprintf("cover-%s.webp", uuid.NewString())
	path := filepath.Join(p.uploadsDir, filename)
	if err := webp.Save(path, img, &webp.Options{Quality: p.quality}); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode cover: %w", err)
	}

	return "/uploads/" + filename, nil
}

// Remove deletes a stored cover given its public URL path. A missing file
// is not an error; the listing may have been imported without one.
func (p *CoverProcessor) Remove(imageURL string) error {
	name := filepath.Base(imageURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(p.uploadsDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cover: %w", err)
	}
	return nil
}
