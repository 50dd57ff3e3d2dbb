package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solfarin/killstats/pkg/cache"
)

// FileName builds the partition-named report file name,
// e.g. "kills_98626718_2026-01.md".
//
// Parameters:
//   - p: Cache partition the report covers
//   - format: Output format (decides the extension)
//
// Returns the file name without a directory component.
func FileName(p cache.Partition, format Format) string {
	name := strings.ReplaceAll(p.String(), ":", "_")

	ext := ".txt"
	switch format {
	case FormatMarkdown:
		ext = ".md"
	case FormatJSON:
		ext = ".json"
	}

	return name + ext
}

// WriteReport renders a report into a partition-named file under dir,
// creating the directory if needed.
//
// Parameters:
//   - dir: Destination directory
//   - p: Cache partition the report covers
//   - format: Output format
//   - render: Callback that writes the report body
//
// Returns the written file path, or error if the write fails.
func WriteReport(dir string, p cache.Partition, format Format, render func(io.Writer) error) (string, error) {
	if dir == "" {
		return "", ErrEmptyDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, FileName(p, format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := render(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}

	return path, nil
}
