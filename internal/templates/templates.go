// Package templates loads the workflow presets kept in a settings
// spreadsheet: which data spreadsheet to operate on, the coordinator
// signature, and the three message templates.
package templates

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Reader is the read slice of the sheets client.
type Reader interface {
	ReadRange(ctx context.Context, range_ string) ([][]interface{}, error)
}

// settingsRange holds, top to bottom: data spreadsheet ID, plea signature,
// receipt template, pairing template, plea template.
const settingsRange = "B1:B5"

// Settings are the presets every session starts from.
type Settings struct {
	DataSpreadsheetID string
	PleaSignature     string
	ReceiptBody       string
	PairingBody       string
	PleaBody          string
}

// Load reads the settings column. A short or empty range is an error:
// without templates no batch can compose anything.
func Load(ctx context.Context, store Reader) (Settings, error) {
	values, err := store.ReadRange(ctx, settingsRange)
	if err != nil {
		return Settings{}, fmt.Errorf("reading workflow settings: %w", err)
	}
	if len(values) < 5 {
		return Settings{}, fmt.Errorf("settings sheet has %d rows in %s, expected 5", len(values), settingsRange)
	}

	cell := func(i int) string {
		if len(values[i]) == 0 || values[i][0] == nil {
			return ""
		}
		return fmt.Sprintf("%v", values[i][0])
	}
	s := Settings{
		DataSpreadsheetID: cell(0),
		PleaSignature:     cell(1),
		ReceiptBody:       cell(2),
		PairingBody:       cell(3),
		PleaBody:          cell(4),
	}
	if s.DataSpreadsheetID == "" {
		return Settings{}, fmt.Errorf("settings sheet has no data spreadsheet ID in B1")
	}

	log.Debug().Str("spreadsheet", s.DataSpreadsheetID).Msg("Loaded workflow settings")
	return s, nil
}
