package killmail

import (
	"encoding/json"
	"fmt"
)

// listRow mirrors one element of a killboard list page.
type listRow struct {
	KillmailID int64 `json:"killmail_id"`
	ZKB        struct {
		Hash       string  `json:"hash"`
		TotalValue float64 `json:"totalValue"`
		Points     int     `json:"points"`
		NPC        bool    `json:"npc"`
		Solo       bool    `json:"solo"`
	} `json:"zkb"`
}

// DecodeSummaries decodes one killboard list page into summaries.
//
// Rows without an ID or hash are skipped rather than failing the
// page: the killboard occasionally emits partial rows and a single bad
// row must not abort pagination.
//
// Returns:
//   - Summaries in page order
//   - Error only if the payload itself is not valid JSON
func DecodeSummaries(data []byte) ([]Summary, error) {
	var rows []listRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		if row.KillmailID <= 0 || row.ZKB.Hash == "" {
			continue
		}
		summaries = append(summaries, Summary{
			ID:         row.KillmailID,
			Hash:       row.ZKB.Hash,
			TotalValue: row.ZKB.TotalValue,
			Solo:       row.ZKB.Solo,
		})
	}

	return summaries, nil
}

// DecodeDetail decodes a detail endpoint payload into a full record,
// attaching the identity and killboard metadata carried by the
// summary (the detail payload itself has neither).
//
// Returns an error if the payload cannot be decoded or violates
// record invariants.
func DecodeDetail(data []byte, sum Summary) (Killmail, error) {
	var km Killmail
	if err := json.Unmarshal(data, &km); err != nil {
		return Killmail{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	km.Hash = sum.Hash
	km.TotalValue = sum.TotalValue
	km.Solo = sum.Solo
	if km.ID == 0 {
		km.ID = sum.ID
	}

	if err := km.Validate(); err != nil {
		return Killmail{}, fmt.Errorf("killmail %d: %w", sum.ID, err)
	}

	return km, nil
}
