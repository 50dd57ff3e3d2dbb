package report

import (
	"encoding/json"
	"io"

	"github.com/solfarin/killstats/pkg/stats"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// killReportJSON is the JSON envelope; the partition renders as its
// canonical string rather than a nested struct.
type killReportJSON struct {
	Partition    string                   `json:"partition"`
	Summary      stats.Summary            `json:"summary"`
	Participants []stats.ParticipantStats `json:"participants"`
	Ships        []stats.ShipTypeStats    `json:"ships"`
}

type lossReportJSON struct {
	Partition    string                       `json:"partition"`
	Summary      stats.Summary                `json:"summary"`
	Participants []stats.LossParticipantStats `json:"participants"`
	Ships        []stats.LossShipTypeStats    `json:"ships"`
}

// FormatKills implements Formatter.FormatKills.
func (f *jsonFormatter) FormatKills(w io.Writer, r KillReport) error {
	return f.encode(w, killReportJSON{
		Partition:    r.Partition.String(),
		Summary:      r.Summary,
		Participants: r.Participants,
		Ships:        r.Ships,
	})
}

// FormatLosses implements Formatter.FormatLosses.
func (f *jsonFormatter) FormatLosses(w io.Writer, r LossReport) error {
	return f.encode(w, lossReportJSON{
		Partition:    r.Partition.String(),
		Summary:      r.Summary,
		Participants: r.Participants,
		Ships:        r.Ships,
	})
}

func (f *jsonFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
