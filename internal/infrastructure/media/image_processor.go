// Package media provides image processing for project image uploads.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

var dataURLPattern = regexp.MustCompile(`^data:image/(png|jpe?g|gif|webp);base64,`)

// ImageProcessor handles project image uploads: decode, downscale, encode
// to WebP, and write a full-size image plus a thumbnail under basePath.
type ImageProcessor struct {
	basePath string
	baseURL  string
	maxWidth int
	thumbW   int
	quality  float32
}

// NewImageProcessor creates a new ImageProcessor instance.
func NewImageProcessor(basePath, baseURL string, maxWidth, thumbWidth int, quality float32) *ImageProcessor {
	return &ImageProcessor{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxWidth: maxWidth,
		thumbW:   thumbWidth,
		quality:  quality,
	}
}

// UploadResult holds the public URLs of a processed upload.
type UploadResult struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
}

// ProcessBase64Image decodes a data-URL image, resizes it to the configured
// maximum width when larger, and writes WebP full and thumbnail variants.
// Returns public URLs relative to the media base URL.
func (p *ImageProcessor) ProcessBase64Image(data string) (*UploadResult, error) {
	if data == "" {
		return nil, fmt.Errorf("empty base64 data")
	}
	if !dataURLPattern.MatchString(data) {
		return nil, fmt.Errorf("unsupported image format")
	}

	b64 := dataURLPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	targetDir := filepath.Join(p.basePath, "projects")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	basename := security.GenerateULID()

	main := img
	if img.Bounds().Dx() > p.maxWidth {
		main = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}
	mainFile := fmt.Sprintf("%s.webp", basename)
	if err := webp.Save(filepath.Join(targetDir, mainFile), main, &webp.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to save WebP image: %w", err)
	}

	thumb := imaging.Resize(img, p.thumbW, 0, imaging.Lanczos)
	thumbFile := fmt.Sprintf("%s_%dpx.webp", basename, p.thumbW)
	if err := webp.Save(filepath.Join(targetDir, thumbFile), thumb, &webp.Options{Quality: p.quality}); err != nil {
		os.Remove(filepath.Join(targetDir, mainFile))
		return nil, fmt.Errorf("failed to save WebP thumbnail: %w", err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/projects/%s", p.baseURL, mainFile),
		ThumbURL: fmt.Sprintf("%s/projects/%s", p.baseURL, thumbFile),
	}, nil
}
