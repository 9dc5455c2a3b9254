// Package sheetstore publishes tabular frames to a Google Sheet. Each dataset
// gets its own worksheet, replaced wholesale on every run.
package sheetstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
)

// Writer wraps the Sheets API for one target spreadsheet.
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *common.Logger
}

// NewWriter authenticates with a service-account credentials file and binds
// to the given spreadsheet.
func NewWriter(ctx context.Context, credentialsFile, spreadsheetID string, logger *common.Logger) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheetstore: spreadsheet id is required")
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheetstore: create sheets service: %w", err)
	}

	return &Writer{service: service, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// WriteSheet replaces the named worksheet's contents with header plus rows,
// creating the worksheet first if the spreadsheet does not have it yet.
func (w *Writer) WriteSheet(ctx context.Context, worksheet string, header []string, rows [][]string) error {
	if err := w.ensureWorksheet(ctx, worksheet); err != nil {
		return err
	}

	if _, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, worksheet, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheetstore: clear worksheet %s: %w", worksheet, err)
	}

	values := make([][]any, 0, len(rows)+1)
	if len(header) > 0 {
		values = append(values, toCells(header))
	}
	for _, row := range rows {
		values = append(values, toCells(row))
	}

	if _, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, worksheet+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheetstore: update worksheet %s: %w", worksheet, err)
	}

	w.logger.Info().Str("worksheet", worksheet).Int("rows", len(rows)).Msg("Sheet updated")
	return nil
}

// ensureWorksheet adds the worksheet when the spreadsheet lacks it.
func (w *Writer) ensureWorksheet(ctx context.Context, worksheet string) error {
	spreadsheet, err := w.service.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheetstore: get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == worksheet {
			return nil
		}
	}

	_, err = w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: worksheet},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheetstore: add worksheet %s: %w", worksheet, err)
	}

	w.logger.Info().Str("worksheet", worksheet).Msg("Worksheet created")
	return nil
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// Ensure Writer implements SheetWriter
var _ interfaces.SheetWriter = (*Writer)(nil)
