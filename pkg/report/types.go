// Package report renders aggregated kill and loss statistics.
//
// It supports multiple output formats (table, markdown, JSON) and
// writes finished reports to partition-named files.
package report

import (
	"io"

	"github.com/solfarin/killstats/pkg/cache"
	"github.com/solfarin/killstats/pkg/stats"
)

// Format represents an output format.
type Format string

const (
	// FormatTable renders an aligned plain-text table.
	FormatTable Format = "table"

	// FormatMarkdown renders a Markdown document.
	FormatMarkdown Format = "markdown"

	// FormatJSON renders JSON.
	FormatJSON Format = "json"
)

// KillReport is the assembled kill-side report data.
//
// Participants and Ships arrive already ranked and truncated; the
// formatter renders them in the order given.
type KillReport struct {
	Partition    cache.Partition
	Summary      stats.Summary
	Participants []stats.ParticipantStats
	Ships        []stats.ShipTypeStats
}

// LossReport is the assembled loss-side report data.
type LossReport struct {
	Partition    cache.Partition
	Summary      stats.Summary
	Participants []stats.LossParticipantStats
	Ships        []stats.LossShipTypeStats
}

// Formatter renders reports to a writer.
type Formatter interface {
	// FormatKills renders a kill report.
	//
	// Parameters:
	//   - w: Output writer
	//   - r: Report to render
	//
	// Returns error if rendering fails.
	FormatKills(w io.Writer, r KillReport) error

	// FormatLosses renders a loss report.
	//
	// Parameters:
	//   - w: Output writer
	//   - r: Report to render
	//
	// Returns error if rendering fails.
	FormatLosses(w io.Writer, r LossReport) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Width caps table rows at the given rune count.
	// 0 means detect the terminal width, falling back to no cap when
	// the output is not a terminal.
	Width int

	// Compact reduces whitespace in table output.
	// Default: false.
	Compact bool
}
