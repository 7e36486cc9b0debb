package pipeline

import (
	"testing"

	"usagelog/internal"
)

func TestParseUsageRow(t *testing.T) {
	cells := make([]string, internal.UsageColumnCount)
	cells[internal.ColPurpose] = " test "
	cells[internal.ColUsageType] = "external"
	cells[internal.ColCompanyName] = "두리테크"
	cells[internal.ColSampleCount] = "3"
	cells[internal.ColPublicFlag] = "Y"
	cells[internal.ColEquipmentName] = "SEM-01"
	cells[internal.ColStartDate] = "2024.07.01"
	cells[internal.ColIncludesHolidays] = "N"
	cells[internal.ColUsageHours] = "2.5시간"
	cells[internal.ColFee] = "1,000"

	rec := ParseUsageRow(internal.RawUsageRow{RowIndex: 7, Cells: cells})

	if rec.RowIndex != 7 {
		t.Errorf("row index = %d, want 7", rec.RowIndex)
	}
	if rec.Purpose != "test" {
		t.Errorf("purpose = %q, want trimmed", rec.Purpose)
	}
	if rec.SampleCount != 3 {
		t.Errorf("sample count = %d, want 3", rec.SampleCount)
	}
	if !rec.Public || rec.IncludesHolidays {
		t.Errorf("flags = %v / %v, want true / false", rec.Public, rec.IncludesHolidays)
	}
	if rec.StartDate.IsZero() || rec.StartDate.Format("2006-01-02") != "2024-07-01" {
		t.Errorf("start date = %v, want 2024-07-01 from dotted form", rec.StartDate)
	}
	if rec.StartDateRaw != "2024.07.01" {
		t.Errorf("raw date = %q, want original text kept", rec.StartDateRaw)
	}
	if rec.UsageHours != 2.5 {
		t.Errorf("hours = %v, want 2.5", rec.UsageHours)
	}
	if rec.Fee != 1000 {
		t.Errorf("fee = %d, want 1000", rec.Fee)
	}
}

func TestParseUsageRowDegradesQuietly(t *testing.T) {
	cells := make([]string, internal.UsageColumnCount)
	cells[internal.ColStartDate] = "미정"
	cells[internal.ColUsageHours] = "소요시간"

	rec := ParseUsageRow(internal.RawUsageRow{RowIndex: 2, Cells: cells})

	if !rec.StartDate.IsZero() {
		t.Errorf("start date = %v, want zero for unparseable text", rec.StartDate)
	}
	if rec.UsageHours != 0 {
		t.Errorf("hours = %v, want 0", rec.UsageHours)
	}
	if rec.StartDateRaw != "미정" || rec.UsageHoursRaw != "소요시간" {
		t.Errorf("raw values lost: %q / %q", rec.StartDateRaw, rec.UsageHoursRaw)
	}
}

func TestParseMaintenanceRow(t *testing.T) {
	rec := ParseMaintenanceRow(internal.RawMaintenanceRow{
		RowIndex: 3,
		Cells:    []string{"2024-07-02", "2024-07-02", "0:30", "filament swap"},
	})

	if rec.Hours != 0.5 {
		t.Errorf("hours = %v, want 0.5 from clock form", rec.Hours)
	}
	if rec.StartDate.Format("2006-01-02") != "2024-07-02" {
		t.Errorf("start date = %v", rec.StartDate)
	}
	if rec.Content != "filament swap" {
		t.Errorf("content = %q", rec.Content)
	}
}
