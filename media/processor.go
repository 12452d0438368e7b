// Package media stores uploaded post media and generates responsive
// thumbnail variants for images.
package media

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ThumbnailWidths are the responsive variant widths generated for image
// uploads.
var ThumbnailWidths = []int{600, 300}

const thumbnailQuality = 80

// Processor writes uploaded media under a base directory.
type Processor struct {
	basePath string
}

// NewProcessor creates a media processor rooted at basePath.
func NewProcessor(basePath string) *Processor {
	return &Processor{basePath: basePath}
}

// Store writes an upload to posts/{userId}/{timestamp}_{filename} and
// returns its retrievable URL. Image uploads additionally get resized
// variants next to the original; non-image media is stored verbatim.
func (p *Processor) Store(userID, filename string, r io.Reader, now time.Time) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("empty user ID")
	}
	filename = sanitizeFilename(filename)
	if filename == "" {
		return "", fmt.Errorf("empty filename")
	}

	targetDir := filepath.Join(p.basePath, "posts", userID)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	storedName := fmt.Sprintf("%d_%s", now.Unix(), filename)
	targetPath := filepath.Join(targetDir, storedName)

	f, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close media file: %w", err)
	}

	if isImage(filename) {
		if err := p.generateVariants(targetPath); err != nil {
			// Variants are best-effort; the original upload stands.
			return mediaURL(userID, storedName), nil
		}
	}

	return mediaURL(userID, storedName), nil
}

// generateVariants writes resized copies of an image next to the
// original.
func (p *Processor) generateVariants(sourcePath string) error {
	src, err := openImage(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source image: %w", err)
	}

	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(sourcePath, ext)

	for _, width := range ThumbnailWidths {
		resized := imaging.Resize(src, width, 0, imaging.Lanczos)
		variantPath := fmt.Sprintf("%s_%dpx.jpg", base, width)
		if err := imaging.Save(resized, variantPath, imaging.JPEGQuality(thumbnailQuality)); err != nil {
			return fmt.Errorf("failed to save %dpx variant: %w", width, err)
		}
	}

	return nil
}

// openImage decodes an image file; webp goes through its own decoder
// since imaging does not handle it.
func openImage(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return webp.Decode(f)
	}
	return imaging.Open(path)
}

func isImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

func mediaURL(userID, storedName string) string {
	return "/media/posts/" + userID + "/" + storedName
}

// sanitizeFilename strips path components and characters that would
// escape the media directory.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, filename)
	return strings.Trim(filename, "._")
}
