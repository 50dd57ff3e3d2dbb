package report

import (
	"fmt"
	"io"

	"github.com/solfarin/killstats/pkg/stats"
)

// markdownFormatter formats output as a Markdown document.
type markdownFormatter struct {
	config Config
}

// FormatKills implements Formatter.FormatKills.
func (f *markdownFormatter) FormatKills(w io.Writer, r KillReport) error {
	if _, err := fmt.Fprintf(w, "# Kill Report `%s`\n\n", r.Partition.String()); err != nil {
		return err
	}

	if err := f.writeSummary(w, r.Summary); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "## Pilots"); err != nil {
		return err
	}

	rows := make([][]string, len(r.Participants))
	for i, p := range r.Participants {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			p.Name,
			formatNumber(p.Kills),
			formatNumber(p.FinalBlows),
			formatNumber(p.Signature),
			shipSummary(p.Ships),
		}
	}
	header := []string{"Rank", "Pilot", "Kills", "Final Blows", "Signature", "Ships"}
	if err := writeMarkdownTable(w, header, rows); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "## Ship Types"); err != nil {
		return err
	}

	shipRows := make([][]string, len(r.Ships))
	for i, st := range r.Ships {
		shipRows[i] = []string{
			fmt.Sprintf("%d", i+1),
			st.Name,
			formatNumber(st.Kills),
			formatNumber(len(st.ByCharacter)),
		}
	}
	return writeMarkdownTable(w, []string{"Rank", "Ship Type", "Kills", "Pilots"}, shipRows)
}

// FormatLosses implements Formatter.FormatLosses.
func (f *markdownFormatter) FormatLosses(w io.Writer, r LossReport) error {
	if _, err := fmt.Fprintf(w, "# Loss Report `%s`\n\n", r.Partition.String()); err != nil {
		return err
	}

	if err := f.writeSummary(w, r.Summary); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "## Pilots"); err != nil {
		return err
	}

	rows := make([][]string, len(r.Participants))
	for i, p := range r.Participants {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			p.Name,
			formatNumber(p.Losses),
			formatISK(p.DestroyedValue),
			formatNumber(int(p.DamageTaken)),
			shipSummary(p.Ships),
		}
	}
	header := []string{"Rank", "Pilot", "Losses", "Value", "Damage", "Ships"}
	if err := writeMarkdownTable(w, header, rows); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "## Ship Types"); err != nil {
		return err
	}

	shipRows := make([][]string, len(r.Ships))
	for i, st := range r.Ships {
		shipRows[i] = []string{
			fmt.Sprintf("%d", i+1),
			st.Name,
			formatNumber(st.Losses),
			formatISK(st.DestroyedValue),
		}
	}
	return writeMarkdownTable(w, []string{"Rank", "Ship Type", "Losses", "Value"}, shipRows)
}

// writeSummary writes the totals list above the tables.
func (f *markdownFormatter) writeSummary(w io.Writer, sum stats.Summary) error {
	if sum.TotalRecords == 0 {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}

	_, err := fmt.Fprintf(w, "- Records: %s\n- Pilots: %d\n- Ship types: %d\n- Last activity: %s\n\n",
		formatNumber(sum.TotalRecords),
		sum.Participants,
		sum.ShipTypes,
		sum.LastActivity.Format("2006-01-02 15:04"))
	return err
}

// writeMarkdownTable writes a pipe table.
func writeMarkdownTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		if _, err := fmt.Fprintln(w, "No data."); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}

	if err := writeMarkdownRow(w, header); err != nil {
		return err
	}

	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = "---"
	}
	if err := writeMarkdownRow(w, separator); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writeMarkdownRow(w, row); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// writeMarkdownRow writes one pipe-delimited row.
func writeMarkdownRow(w io.Writer, cells []string) error {
	for _, cell := range cells {
		if _, err := fmt.Fprintf(w, "| %s ", cell); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "|")
	return err
}
