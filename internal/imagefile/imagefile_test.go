package imagefile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ReadsSupportedImage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "shot.png", 20, 10)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if img.Name != "shot.png" {
		t.Fatalf("Name = %q, want shot.png", img.Name)
	}
	if !filepath.IsAbs(img.Path) {
		t.Fatalf("Path = %q, want absolute", img.Path)
	}
	if img.Size() == 0 {
		t.Fatalf("Size = 0, want image bytes")
	}
}

func TestLoad_Rejects(t *testing.T) {
	dir := t.TempDir()
	gif := filepath.Join(dir, "anim.gif")
	if err := os.WriteFile(gif, []byte("GIF89a"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(gif); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Load(gif) error = %v, want ErrUnsupported", err)
	}

	folder := filepath.Join(dir, "folder.png")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := Load(folder); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("Load(dir) error = %v, want directory error", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatalf("Load(missing) returned nil error")
	}
	if _, err := Load("  "); err == nil {
		t.Fatalf("Load(blank) returned nil error")
	}
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg"} {
		if !Supported(name) {
			t.Fatalf("Supported(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.gif", "b", "c.png.txt"} {
		if Supported(name) {
			t.Fatalf("Supported(%q) = true, want false", name)
		}
	}
}

func TestNewPreview_ScalesAndReleases(t *testing.T) {
	path := writePNG(t, t.TempDir(), "wide.png", 200, 50)
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	p := NewPreview(img, 40, 10)
	if p.Err != nil {
		t.Fatalf("preview error: %v", p.Err)
	}
	if p.Dimensions() != "200x50" || p.Format != "png" {
		t.Fatalf("preview = %s %s, want 200x50 png", p.Dimensions(), p.Format)
	}

	lines := strings.Split(p.Render(), "\n")
	// 200x50 fit into 40 columns is 40x10 pixels, which is 5 cell rows.
	if len(lines) != 5 {
		t.Fatalf("Render produced %d lines, want 5", len(lines))
	}
	if cols, rows := p.ThumbSize(); cols != 40 || rows != 5 {
		t.Fatalf("ThumbSize = %dx%d, want 40x5", cols, rows)
	}

	p.Release()
	if !p.Released() {
		t.Fatalf("Released() = false after Release")
	}
	if p.Render() != "" {
		t.Fatalf("Render after Release should be empty")
	}
	if cols, rows := p.ThumbSize(); cols != 0 || rows != 0 {
		t.Fatalf("ThumbSize after Release = %dx%d, want 0x0", cols, rows)
	}
}

func TestNewPreview_UndecodableStillReturnsPreview(t *testing.T) {
	img := &Image{Name: "broken.png", Data: []byte("not an image")}
	p := NewPreview(img, 0, 0)
	if p == nil {
		t.Fatalf("NewPreview returned nil for non-nil image")
	}
	if p.Err == nil {
		t.Fatalf("Err = nil, want decode error")
	}
	if p.Render() != "" || p.Dimensions() != "" {
		t.Fatalf("undecodable preview should render nothing")
	}
	if NewPreview(nil, 10, 10) != nil {
		t.Fatalf("NewPreview(nil) should be nil")
	}
}

// pngHeader returns a PNG signature and IHDR chunk for a w x h 8-bit
// grayscale image with no pixel data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestNewPreview_SkipsOversizedImage(t *testing.T) {
	img := &Image{Name: "huge.png", Data: pngHeader(60000, 60000)}
	p := NewPreview(img, 0, 0)
	if p == nil {
		t.Fatalf("NewPreview returned nil")
	}
	if p.Err == nil || !strings.Contains(p.Err.Error(), "preview limit") {
		t.Fatalf("Err = %v, want preview limit error", p.Err)
	}
	if got := p.Dimensions(); got != "60000x60000" {
		t.Fatalf("Dimensions() = %q, want 60000x60000", got)
	}
	if p.Format != "png" {
		t.Fatalf("Format = %q, want png", p.Format)
	}
	if p.Render() != "" {
		t.Fatalf("oversized preview should render nothing")
	}
}

func TestFitCells(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{10, 10, 40, 20, 10, 10},
		{400, 100, 40, 20, 40, 10},
		{100, 400, 40, 20, 5, 20},
		{3, 3, 40, 20, 3, 4},
		{1000, 1, 10, 10, 10, 2},
	}
	for _, tc := range cases {
		w, h := fitCells(tc.w, tc.h, tc.maxW, tc.maxH)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("fitCells(%d,%d,%d,%d) = %d,%d want %d,%d", tc.w, tc.h, tc.maxW, tc.maxH, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestReadEXIF_NoExif(t *testing.T) {
	if tags := readEXIF([]byte("plain bytes")); tags != nil {
		t.Fatalf("readEXIF = %v, want nil", tags)
	}
}

func TestPathFromDrop(t *testing.T) {
	dir := t.TempDir()
	spaced := writePNG(t, dir, "My Shot.png", 2, 2)
	plain := writePNG(t, dir, "plain.png", 2, 2)

	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", plain, plain, true},
		{"padded", "  " + plain + " ", plain, true},
		{"single quoted", "'" + spaced + "'", spaced, true},
		{"double quoted", `"` + spaced + `"`, spaced, true},
		{"escaped spaces", strings.ReplaceAll(spaced, " ", `\ `), spaced, true},
		{"file uri", "file://" + strings.ReplaceAll(spaced, " ", "%20"), spaced, true},
		{"remote uri", "file://server" + plain, "", false},
		{"directory", dir, "", false},
		{"missing", filepath.Join(dir, "nope.png"), "", false},
		{"multi line", plain + "\n" + spaced, "", false},
		{"code text", "def f():", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PathFromDrop(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("PathFromDrop(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}
