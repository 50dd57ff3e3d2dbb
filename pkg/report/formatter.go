package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// New creates a new formatter based on configuration.
//
// Parameters:
//   - cfg: Formatter configuration
//
// Returns a configured Formatter.
func New(cfg Config) Formatter {
	// Set defaults.
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatMarkdown:
		return &markdownFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// ParseFormat validates a format name.
//
// Parameters:
//   - name: Format name from the CLI
//
// Returns the Format, or ErrInvalidFormat for unknown names.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatTable, FormatMarkdown, FormatJSON:
		return Format(name), nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}
}

// formatNumber formats a number with thousand separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	result := ""
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}

// formatISK formats an estimated value in short ISK notation.
func formatISK(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fb", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fm", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// shipSummary flattens a participant's ship map into "Name x<count>"
// entries, count descending then name ascending.
func shipSummary(ships map[string]int) string {
	if len(ships) == 0 {
		return ""
	}

	type row struct {
		name  string
		count int
	}

	rows := make([]row, 0, len(ships))
	for name, count := range ships {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%s x%d", r.name, r.count)
	}
	return strings.Join(parts, ", ")
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	separator := strings.Repeat("=", len(title))

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, separator)
	return err
}
