package imagefile

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	exif "github.com/dsoprea/go-exif/v3"
	_ "golang.org/x/image/bmp" // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // screenshots saved as .png are sometimes webp
)

// Default thumbnail bounds in terminal cells.
const (
	DefaultPreviewCols = 48
	DefaultPreviewRows = 16
)

// MaxPreviewPixels caps the decoded size of a previewed image. Larger files
// are still usable for extraction but get no thumbnail.
const MaxPreviewPixels = 50_000_000

// exifHighlights lists the EXIF tags worth showing next to a preview.
var exifHighlights = []string{
	"Software",
	"DateTimeOriginal",
	"DateTime",
	"Make",
	"Model",
	"Orientation",
	"ImageDescription",
}

// Tag is one EXIF name/value pair.
type Tag struct {
	Name  string
	Value string
}

// Preview is the client-side stand-in for a selected image: a thumbnail plus
// what could be learned from the file. It holds decoded pixels until Release.
type Preview struct {
	Width    int
	Height   int
	Format   string
	Metadata []Tag
	// Err records why no thumbnail could be built.
	Err error

	mu       sync.RWMutex
	thumb    *image.RGBA
	released bool
}

// NewPreview decodes img and scales it to fit cols x rows terminal cells.
// It returns a Preview even when decoding fails so that every selected image
// has one; Err says what went wrong.
func NewPreview(img *Image, cols, rows int) *Preview {
	if img == nil {
		return nil
	}
	if cols <= 0 {
		cols = DefaultPreviewCols
	}
	if rows <= 0 {
		rows = DefaultPreviewRows
	}

	p := &Preview{Metadata: readEXIF(img.Data)}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		p.Format = "unknown"
		p.Err = fmt.Errorf("decode image: %w", err)
		return p
	}
	p.Width = cfg.Width
	p.Height = cfg.Height
	p.Format = format
	if p.Width <= 0 || p.Height <= 0 {
		p.Err = fmt.Errorf("decode image: empty bounds")
		return p
	}
	if int64(p.Width)*int64(p.Height) > MaxPreviewPixels {
		p.Err = fmt.Errorf("decode image: %dx%d exceeds the %d pixel preview limit", p.Width, p.Height, MaxPreviewPixels)
		return p
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		p.Err = fmt.Errorf("decode image: %w", err)
		return p
	}
	bounds := src.Bounds()

	w, h := fitCells(p.Width, p.Height, cols, rows*2)
	thumb := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), src, bounds, draw.Src, nil)
	p.thumb = thumb
	return p
}

// fitCells scales w x h to fit maxW x maxH keeping aspect ratio.
// Heights are in half-cells since each cell shows two pixel rows.
func fitCells(w, h, maxW, maxH int) (int, int) {
	outW, outH := w, h
	if outW > maxW {
		outH = outH * maxW / outW
		outW = maxW
	}
	if outH > maxH {
		outW = outW * maxH / outH
		outH = maxH
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	// Pad to an even pixel height so every cell has a bottom half.
	if outH%2 == 1 {
		outH++
	}
	return outW, outH
}

// Dimensions returns "WxH" or "" when unknown.
func (p *Preview) Dimensions() string {
	if p == nil || p.Width == 0 || p.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// Render draws the thumbnail with upper half blocks: the foreground is the
// top pixel and the background is the bottom pixel.
func (p *Preview) Render() string {
	if p == nil {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.released || p.thumb == nil {
		return ""
	}
	bounds := p.thumb.Bounds()
	lines := make([]string, 0, bounds.Dy()/2)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		var line strings.Builder
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexColor(p.thumb.At(x, y))
			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = hexColor(p.thumb.At(x, y+1))
			}
			line.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// Release drops the decoded pixels. Render returns "" afterwards.
func (p *Preview) Release() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.thumb = nil
	p.released = true
}

// Released reports whether Release has been called.
func (p *Preview) Released() bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.released
}

// ThumbSize returns the rendered size in terminal cells, or zeros when there
// is nothing to draw.
func (p *Preview) ThumbSize() (cols, rows int) {
	if p == nil {
		return 0, 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.released || p.thumb == nil {
		return 0, 0
	}
	b := p.thumb.Bounds()
	return b.Dx(), (b.Dy() + 1) / 2
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func readEXIF(data []byte) []Tag {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	found := make(map[string]string, len(exifHighlights))
	for _, entry := range entries {
		value := strings.TrimSpace(entry.Formatted)
		if value == "" {
			continue
		}
		if _, seen := found[entry.TagName]; !seen {
			found[entry.TagName] = value
		}
	}

	var tags []Tag
	for _, name := range exifHighlights {
		if value, ok := found[name]; ok {
			tags = append(tags, Tag{Name: name, Value: value})
		}
	}
	return tags
}
