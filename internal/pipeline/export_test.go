package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"usagelog/internal"
)

func TestWriteImportTemplateRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "template.xlsx")
	if err := WriteImportTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}

	candidates, err := ExtractCandidates("xlsx", path)
	if err != nil {
		t.Fatalf("template header must satisfy the extractor: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("template carries %d data rows, want none", len(candidates))
	}
}

func TestExportUsageRowsToXLSX(t *testing.T) {
	rows := []internal.RawUsageRow{
		{RowIndex: 2, Cells: func() []string {
			cells := make([]string, internal.UsageColumnCount)
			cells[internal.ColEquipmentName] = "SEM-01"
			cells[internal.ColUsageHours] = "2.5시간"
			return cells
		}()},
	}
	path := filepath.Join(t.TempDir(), "log.xlsx")
	if err := ExportUsageRowsToXLSX(rows, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "A1")
	if err != nil || header != "purpose" {
		t.Errorf("A1 = %q (%v), want purpose header", header, err)
	}
	hours, err := f.GetCellValue(sheet, "S2")
	if err != nil || hours != "2.5시간" {
		t.Errorf("S2 = %q (%v), want verbatim cell text", hours, err)
	}
}

func TestExportReportToXLSX(t *testing.T) {
	report := internal.UtilizationReport{
		Equipment:            "SEM-01",
		Workdays:             5,
		AvailableHours:       40,
		MaintenanceHours:     3,
		ActualAvailableHours: 37,
		ExternalHours:        6,
		InternalHours:        6,
		ActualUsageHours:     12,
		UtilizationRate:      12.0 / 37.0,
		ExternalRate:         6.0 / 37.0,
	}
	goal := GoalSeek(report.ActualAvailableHours, report.ActualUsageHours, 70)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := ExportReportToXLSX(report, &goal, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	if v, _ := f.GetCellValue(sheet, "B1"); v != "SEM-01" {
		t.Errorf("B1 = %q, want equipment name", v)
	}
	if v, _ := f.GetCellValue(sheet, "G6"); v != "32.43%" {
		t.Errorf("G6 = %q, want formatted utilization rate", v)
	}
	if v, _ := f.GetCellValue(sheet, "B10"); v != string(internal.GoalDeficit) {
		t.Errorf("B10 = %q, want goal-seek outcome", v)
	}
}
