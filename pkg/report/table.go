package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/solfarin/killstats/pkg/stats"
)

// tableFormatter formats output as aligned plain-text tables.
type tableFormatter struct {
	config Config
}

// FormatKills implements Formatter.FormatKills.
func (f *tableFormatter) FormatKills(w io.Writer, r KillReport) error {
	title := "Kill Report " + r.Partition.String()
	if err := writeHeader(w, title, f.config.Compact); err != nil {
		return err
	}

	if err := f.writeSummary(w, r.Summary); err != nil {
		return err
	}

	rows := make([][]string, len(r.Participants))
	for i, p := range r.Participants {
		rows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			p.Name,
			formatNumber(p.Kills),
			formatNumber(p.FinalBlows),
			formatNumber(p.Signature),
			shipSummary(p.Ships),
		}
	}

	header := []string{"Rank", "Pilot", "Kills", "Final Blows", "Signature", "Ships"}
	if err := f.writeTable(w, header, rows); err != nil {
		return err
	}

	shipRows := make([][]string, len(r.Ships))
	for i, st := range r.Ships {
		shipRows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			st.Name,
			formatNumber(st.Kills),
			formatNumber(len(st.ByCharacter)),
		}
	}

	return f.writeTable(w, []string{"Rank", "Ship Type", "Kills", "Pilots"}, shipRows)
}

// FormatLosses implements Formatter.FormatLosses.
func (f *tableFormatter) FormatLosses(w io.Writer, r LossReport) error {
	title := "Loss Report " + r.Partition.String()
	if err := writeHeader(w, title, f.config.Compact); err != nil {
		return err
	}

	if err := f.writeSummary(w, r.Summary); err != nil {
		return err
	}

	rows := make([][]string, len(r.Participants))
	for i, p := range r.Participants {
		rows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			p.Name,
			formatNumber(p.Losses),
			formatISK(p.DestroyedValue),
			formatNumber(int(p.DamageTaken)),
			shipSummary(p.Ships),
		}
	}

	header := []string{"Rank", "Pilot", "Losses", "Value", "Damage", "Ships"}
	if err := f.writeTable(w, header, rows); err != nil {
		return err
	}

	shipRows := make([][]string, len(r.Ships))
	for i, st := range r.Ships {
		shipRows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			st.Name,
			formatNumber(st.Losses),
			formatISK(st.DestroyedValue),
		}
	}

	return f.writeTable(w, []string{"Rank", "Ship Type", "Losses", "Value"}, shipRows)
}

// writeSummary writes the totals block above the tables.
func (f *tableFormatter) writeSummary(w io.Writer, sum stats.Summary) error {
	if sum.TotalRecords == 0 {
		return nil
	}

	_, err := fmt.Fprintf(w, "Records: %s | Pilots: %d | Ship types: %d | Last activity: %s\n\n",
		formatNumber(sum.TotalRecords),
		sum.Participants,
		sum.ShipTypes,
		sum.LastActivity.Format("2006-01-02 15:04"))
	return err
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	f.clampWidths(widths)

	// Write header.
	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	// Write separator.
	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	// Write rows.
	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	// Add spacing.
	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// clampWidths shrinks the widest column until the row fits the
// configured or detected terminal width. Only the last column (the
// ship breakdown) is ever truncated; fixed numeric columns stay.
func (f *tableFormatter) clampWidths(widths []int) {
	limit := f.config.Width
	if limit == 0 {
		limit = detectWidth()
	}
	if limit <= 0 {
		return
	}

	gap := 2
	if f.config.Compact {
		gap = 1
	}

	total := gap * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}

	last := len(widths) - 1
	if over := total - limit; over > 0 && widths[last]-over >= len("...") {
		widths[last] -= over
	}
}

// writeRow writes a single table row, truncating cells that exceed
// their column width.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	for i, cell := range cells {
		if i > 0 {
			gap := "  "
			if f.config.Compact {
				gap = " "
			}
			if _, err := fmt.Fprint(w, gap); err != nil {
				return err
			}
		}

		if len(cell) > widths[i] {
			cell = cell[:widths[i]-3] + "..."
		}

		format := fmt.Sprintf("%%-%ds", widths[i])
		if _, err := fmt.Fprintf(w, format, cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// detectWidth returns the terminal width when stdout is a terminal,
// 0 otherwise (no cap).
func detectWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
