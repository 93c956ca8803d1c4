// Package render draws the post-refresh summary image and serves it back.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"countryapi/internal/country/models"
	"countryapi/pkg/platform/sentinel"
)

// DefaultPath is where the summary image lives unless configured otherwise.
const DefaultPath = "cache/summary.png"

const (
	imageWidth  = 550
	imageHeight = 260
	marginLeft  = 20
	titleY      = 30
	bodyY       = 82
	lineHeight  = 22
)

var background = color.RGBA{R: 0x11, G: 0x28, B: 0x5F, A: 0xff}

// Renderer turns a summary into an image.
type Renderer interface {
	Render(ctx context.Context, summary models.Summary) error
}

// PNGRenderer writes the summary as a PNG to a single overwritable path.
type PNGRenderer struct {
	path string
}

// NewPNGRenderer returns a renderer writing to path, or DefaultPath when empty.
func NewPNGRenderer(path string) *PNGRenderer {
	if path == "" {
		path = DefaultPath
	}
	return &PNGRenderer{path: path}
}

// Path reports where the image is written.
func (r *PNGRenderer) Path() string {
	return r.path
}

// Render draws summary and replaces the image on disk. The new file is written
// next to the old one and renamed into place, so readers never observe a
// partially written image.
func (r *PNGRenderer) Render(ctx context.Context, summary models.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, drawSummary(summary)); err != nil {
		return fmt.Errorf("encode summary png: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".summary-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp image: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace summary image: %w", err)
	}
	return nil
}

// Read returns the last rendered image, or sentinel.ErrNotFound when none has
// been written yet.
func (r *PNGRenderer) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read summary image: %w", err)
	}
	return data, nil
}

func drawSummary(summary models.Summary) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: inconsolata.Bold8x16,
		Dot:  fixed.P(marginLeft, titleY),
	}
	d.DrawString("Country Summary")

	d.Face = basicfont.Face7x13
	for i, line := range summaryLines(summary) {
		d.Dot = fixed.P(marginLeft, bodyY+i*lineHeight)
		d.DrawString(line)
	}
	return img
}

func summaryLines(summary models.Summary) []string {
	lastRefresh := "never"
	if summary.LastRefresh != nil {
		lastRefresh = summary.LastRefresh.UTC().Format(time.RFC3339)
	}

	lines := []string{
		"Total Countries: " + strconv.FormatInt(summary.TotalCountries, 10),
		"Last Refresh: " + lastRefresh,
		"Top 5 GDP Countries:",
	}
	for i, entry := range summary.TopGDP {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, entry.Name, formatGDP(entry.EstimatedGDP)))
	}
	return lines
}
