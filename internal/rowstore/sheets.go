package rowstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore implements Store against one Google spreadsheet.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetIDs      map[string]int64
}

// NewSheetsStore builds the API client from a service-account key file
// and fails fast if the spreadsheet is unreachable, caching the
// title-to-sheetId mapping the delete operation needs.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("rowstore: build sheets client: %w", err)
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("rowstore: open spreadsheet %s: %w", spreadsheetID, err)
	}

	ids := make(map[string]int64, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			ids[s.Properties.Title] = s.Properties.SheetId
		}
	}

	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID, sheetIDs: ids}, nil
}

func (s *SheetsStore) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, &StoreError{Op: "read", Sheet: sheet, Err: err}
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *SheetsStore) Append(ctx context.Context, sheet string, row []string) error {
	return s.AppendAll(ctx, sheet, [][]string{row})
}

func (s *SheetsStore) AppendAll(ctx context.Context, sheet string, rows [][]string) error {
	vr := &sheets.ValueRange{Values: toInterface(rows)}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheet, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: "append", Sheet: sheet, Err: err}
	}
	return nil
}

func (s *SheetsStore) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	return s.UpdateRange(ctx, sheet, CellRef(row, col), [][]string{{value}})
}

func (s *SheetsStore) UpdateRange(ctx context.Context, sheet, a1Range string, values [][]string) error {
	vr := &sheets.ValueRange{Values: toInterface(values)}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, sheet+"!"+a1Range, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: "update", Sheet: sheet, Err: err}
	}
	return nil
}

func (s *SheetsStore) DeleteRow(ctx context.Context, sheet string, row int) error {
	id, ok := s.sheetIDs[sheet]
	if !ok {
		return &StoreError{Op: "delete", Sheet: sheet, Err: fmt.Errorf("unknown sheet")}
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return &StoreError{Op: "delete", Sheet: sheet, Err: err}
	}
	return nil
}

func toInterface(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
