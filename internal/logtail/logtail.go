package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const chunkSize = 8 << 10

// Read returns the last maxLines lines of the file at path, oldest first.
// A missing file yields no lines. maxLines <= 0 returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	data, err := tailBytes(file, info.Size(), maxLines)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return splitLines(data, maxLines), nil
}

// tailBytes reads backwards until it holds more than maxLines newlines or
// reaches the start of the file.
func tailBytes(r io.ReaderAt, size int64, maxLines int) ([]byte, error) {
	if maxLines <= 0 {
		buf := make([]byte, size)
		if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return buf, nil
	}

	var data []byte
	offset := size
	for offset > 0 && bytes.Count(data, []byte{'\n'}) <= maxLines {
		n := int64(chunkSize)
		if offset < n {
			n = offset
		}
		offset -= n
		chunk := make([]byte, n)
		if _, err := r.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		data = append(chunk, data...)
	}
	return data, nil
}

func splitLines(data []byte, maxLines int) []string {
	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}
