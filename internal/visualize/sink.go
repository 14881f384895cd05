// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package visualize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const imageMode os.FileMode = 0o644

// Sink receives rendered images by file name.
type Sink interface {
	Write(name string, img io.WriterTo) error
}

// DirSink writes images into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

// Path returns the full path an image named name is written to.
func (s DirSink) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Write renders img to a temporary file and renames it into place, so a
// failed render never leaves a partial image behind. Images are written
// world-readable (0644).
func (s DirSink) Write(name string, img io.WriterTo) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", s.Dir, err)
	}

	tmpFile, err := os.CreateTemp(s.Dir, ".render-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := img.WriteTo(tmpFile)
	if writeErr == nil {
		writeErr = tmpFile.Chmod(imageMode)
	}
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rendering %s: %w", name, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Slug derives a file-name stem from an author name: lowercase letters and
// digits, with every other run of characters collapsed to one underscore.
func Slug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	if b.Len() == 0 {
		return "author"
	}
	return b.String()
}

// HistogramName is the single-author histogram file name.
func HistogramName(label string) string { return Slug(label) + "_histogram.png" }

// DensityName is the single-author density file name.
func DensityName(label string) string { return Slug(label) + "_density.png" }
