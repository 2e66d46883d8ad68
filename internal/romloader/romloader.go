// Package romloader loads a ROM image from disk, transparently
// unpacking it first if it's stored inside a .7z archive — the format
// most Game Boy test-ROM suites are distributed in.
package romloader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// Load reads path and returns the raw ROM image. A flat .gb/.gbc file
// is read as-is; a .7z archive has its first entry extracted instead.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) != ".7z" {
		return io.ReadAll(f)
	}

	archive, err := sevenzip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("romloader: open 7z archive: %w", err)
	}
	if len(archive.File) == 0 {
		return nil, fmt.Errorf("romloader: %s contains no entries", path)
	}

	entry, err := archive.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("romloader: open archive entry: %w", err)
	}
	defer entry.Close()

	return io.ReadAll(entry)
}
