// Package sheetstore implements the row-store contract over one Google
// Sheets document: a sheet per equipment holding its usage log, a lazily
// provisioned "<equipment><suffix>" sheet per maintenance ledger, and the
// registry and roster sheets for master data. The document offers no
// transaction isolation; concurrent writers can race, which is an accepted
// limitation of the backing store.
package sheetstore

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"usagelog/internal"
	"usagelog/internal/config"
)

type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	cfg           config.Config
	limiter       *RateLimiter

	sheetIDs map[string]int64
}

func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	if err := cfg.Require("SHEETS_SPREADSHEET_ID", cfg.SpreadsheetID); err != nil {
		return nil, err
	}
	svc, err := newService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		cfg:           cfg,
		limiter:       NewRateLimiter(cfg.SheetsRateLimitRPS),
	}, nil
}

func (s *Store) FetchUsageLogRows(ctx context.Context, equipmentName string) ([]internal.RawUsageRow, error) {
	values, err := s.fetchValues(ctx, equipmentName)
	if err != nil {
		return nil, err
	}
	if len(values) <= 1 {
		return nil, nil
	}

	out := make([]internal.RawUsageRow, 0, len(values)-1)
	for i, row := range values[1:] {
		out = append(out, internal.RawUsageRow{
			RowIndex: i + 2,
			Cells:    padCells(row, internal.UsageColumnCount),
		})
	}
	return out, nil
}

func (s *Store) AppendUsageRows(ctx context.Context, equipmentName string, rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	vr := &sheets.ValueRange{Values: toValueRows(rows)}
	s.limiter.WaitTurn()
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, sheetRange(equipmentName), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append %d rows to %s: %w", len(rows), equipmentName, err)
	}
	return len(rows), nil
}

func (s *Store) UpdateUsageRow(ctx context.Context, equipmentName string, rowIndex int, cells []string) error {
	if len(cells) != internal.UsageColumnCount {
		return fmt.Errorf("update row %d of %s: want %d cells, got %d", rowIndex, equipmentName, internal.UsageColumnCount, len(cells))
	}
	rng := fmt.Sprintf("%s!A%d:U%d", quoteSheet(equipmentName), rowIndex, rowIndex)
	vr := &sheets.ValueRange{Values: toValueRows([][]string{cells})}
	s.limiter.WaitTurn()
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row %d of %s: %w", rowIndex, equipmentName, err)
	}
	return nil
}

func (s *Store) DeleteUsageRow(ctx context.Context, equipmentName string, rowIndex int) error {
	sheetID, ok, err := s.sheetID(ctx, equipmentName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete row %d: no sheet for equipment %s", rowIndex, equipmentName)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: int64(rowIndex - 1),
				EndIndex:   int64(rowIndex),
			},
		},
	}}}
	s.limiter.WaitTurn()
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", rowIndex, equipmentName, err)
	}
	return nil
}

func (s *Store) FetchMaintenanceRows(ctx context.Context, equipmentName string) ([]internal.RawMaintenanceRow, error) {
	name := s.maintenanceSheet(equipmentName)
	_, ok, err := s.sheetID(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Never provisioned: no maintenance recorded yet.
		return nil, nil
	}

	values, err := s.fetchValues(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(values) <= 1 {
		return nil, nil
	}

	out := make([]internal.RawMaintenanceRow, 0, len(values)-1)
	for i, row := range values[1:] {
		out = append(out, internal.RawMaintenanceRow{
			RowIndex: i + 2,
			Cells:    padCells(row, internal.MaintenanceColumnCount),
		})
	}
	return out, nil
}

func (s *Store) AppendMaintenanceRow(ctx context.Context, equipmentName string, cells []string) error {
	name := s.maintenanceSheet(equipmentName)
	_, ok, err := s.sheetID(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		if err := s.provisionMaintenanceSheet(ctx, name); err != nil {
			return err
		}
	}

	vr := &sheets.ValueRange{Values: toValueRows([][]string{cells})}
	s.limiter.WaitTurn()
	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, sheetRange(name), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append maintenance row to %s: %w", name, err)
	}
	return nil
}

// FetchEquipmentRegistry reads the registry sheet: dept, name, no, type per
// row, header skipped.
func (s *Store) FetchEquipmentRegistry(ctx context.Context) ([]internal.EquipmentInfo, error) {
	values, err := s.fetchValues(ctx, s.cfg.RegistrySheet)
	if err != nil {
		return nil, err
	}
	if len(values) <= 1 {
		return nil, nil
	}

	var out []internal.EquipmentInfo
	for _, row := range values[1:] {
		cells := padCells(row, 4)
		info := internal.EquipmentInfo{
			Dept: strings.TrimSpace(cells[0]),
			Name: strings.TrimSpace(cells[1]),
			No:   strings.TrimSpace(cells[2]),
			Type: strings.TrimSpace(cells[3]),
		}
		if info.Dept == "" || info.Name == "" {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// FetchCompanyRoster reads the roster sheet: name, tax id per row, header
// skipped, in sheet order so later duplicates win downstream.
func (s *Store) FetchCompanyRoster(ctx context.Context) ([]internal.CompanyRosterEntry, error) {
	values, err := s.fetchValues(ctx, s.cfg.RosterSheet)
	if err != nil {
		return nil, err
	}
	if len(values) <= 1 {
		return nil, nil
	}

	var out []internal.CompanyRosterEntry
	for _, row := range values[1:] {
		cells := padCells(row, 2)
		name := strings.TrimSpace(cells[0])
		if name == "" {
			continue
		}
		out = append(out, internal.CompanyRosterEntry{Name: name, TaxID: strings.TrimSpace(cells[1])})
	}
	return out, nil
}

func (s *Store) fetchValues(ctx context.Context, sheetName string) ([][]string, error) {
	s.limiter.WaitTurn()
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, sheetRange(sheetName)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", sheetName, err)
	}

	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, fmt.Sprint(v))
		}
		out = append(out, cells)
	}
	return out, nil
}

func (s *Store) provisionMaintenanceSheet(ctx context.Context, name string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: name,
				GridProperties: &sheets.GridProperties{
					RowCount:    100,
					ColumnCount: int64(internal.MaintenanceColumnCount),
				},
			},
		},
	}}}
	s.limiter.WaitTurn()
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("provision maintenance sheet %s: %w", name, err)
	}
	s.sheetIDs = nil

	header := make([]string, len(internal.MaintenanceColumns))
	copy(header, internal.MaintenanceColumns)
	vr := &sheets.ValueRange{Values: toValueRows([][]string{header})}
	s.limiter.WaitTurn()
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, sheetRange(name), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write maintenance header to %s: %w", name, err)
	}
	return nil
}

// sheetID resolves a sheet title, caching the whole title map per fetch.
// The cache is dropped after any structural change.
func (s *Store) sheetID(ctx context.Context, name string) (int64, bool, error) {
	if s.sheetIDs == nil {
		s.limiter.WaitTurn()
		doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
		if err != nil {
			return 0, false, fmt.Errorf("fetch spreadsheet metadata: %w", err)
		}
		s.sheetIDs = map[string]int64{}
		for _, sheet := range doc.Sheets {
			if sheet.Properties != nil {
				s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
			}
		}
	}
	id, ok := s.sheetIDs[name]
	return id, ok, nil
}

func (s *Store) maintenanceSheet(equipmentName string) string {
	return equipmentName + s.cfg.MaintenanceSuffix
}

func sheetRange(name string) string {
	return quoteSheet(name)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func padCells(row []string, width int) []string {
	if len(row) > width {
		row = row[:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func toValueRows(rows [][]string) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, 0, len(row))
		for _, c := range row {
			cells = append(cells, c)
		}
		out = append(out, cells)
	}
	return out
}
