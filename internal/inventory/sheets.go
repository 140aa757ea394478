package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kambuka/storagebot/internal/logger"
)

// SheetsConfig holds the Google Sheets backend settings.
type SheetsConfig struct {
	SpreadsheetID   string
	ReadRange       string // defaults to "A2:C" (first row is the header)
	AppendRange     string // defaults to "A:C"
	CredentialsFile string
}

// SheetsStore implements Store on top of a Google spreadsheet with three
// columns in fixed order: location, name, description.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
	appendRange   string
	log           *slog.Logger
}

// NewSheetsStore creates a sheets-backed store authenticated with a
// service-account credentials file.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig) (*SheetsStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = "A2:C"
	}
	appendRange := cfg.AppendRange
	if appendRange == "" {
		appendRange = "A:C"
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     readRange,
		appendRange:   appendRange,
		log:           logger.L().With("component", "sheets", "spreadsheet", cfg.SpreadsheetID),
	}, nil
}

// FetchAll reads every data row in sheet order.
func (s *SheetsStore) FetchAll(ctx context.Context) ([]Record, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		s.log.Error("fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	records := rowsToRecords(resp.Values)
	s.log.Debug("rows fetched", "count", len(records))
	return records, nil
}

// Append adds one row at the end of the sheet.
func (s *SheetsStore) Append(ctx context.Context, rec Record) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{rec.Location, rec.Name, rec.Description}},
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.appendRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		s.log.Error("append failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.log.Info("row appended", "name", rec.Name, "location", rec.Location)
	return nil
}

// rowsToRecords converts raw sheet rows into trimmed records. Short rows are
// padded with empty fields; fully empty rows are dropped.
func rowsToRecords(rows [][]interface{}) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		cells := [3]string{}
		for i := 0; i < len(row) && i < 3; i++ {
			cells[i] = fmt.Sprintf("%v", row[i])
		}
		rec := NewRecord(cells[0], cells[1], cells[2])
		if rec.Location == "" && rec.Name == "" && rec.Description == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}
