package imagefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize bounds how much of an image file is read into memory.
const MaxSize = 20 << 20

// ErrUnsupported is returned for files the service will not accept.
var ErrUnsupported = errors.New("unsupported image type")

var allowedExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// Image is a code screenshot selected for extraction.
type Image struct {
	Name string
	Path string
	Data []byte
}

// Size returns the image size in bytes.
func (img *Image) Size() int64 {
	if img == nil {
		return 0
	}
	return int64(len(img.Data))
}

// Supported reports whether path has an extension the service accepts.
func Supported(path string) bool {
	_, ok := allowedExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the accepted file extensions.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg"}
}

// Load reads the image at path.
func Load(path string) (*Image, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("image path is empty")
	}
	if !Supported(trimmed) {
		return nil, fmt.Errorf("%w: %s (want %s)", ErrUnsupported, filepath.Base(trimmed), strings.Join(Extensions(), ", "))
	}

	file, err := os.Open(trimmed)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", trimmed)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("image is %d bytes, limit is %d", info.Size(), MaxSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxSize)
	}

	abs, err := filepath.Abs(trimmed)
	if err != nil {
		abs = trimmed
	}
	return &Image{
		Name: filepath.Base(trimmed),
		Path: abs,
		Data: data,
	}, nil
}
