package pipeline

import (
	"math"
	"testing"
	"time"

	"usagelog/internal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func usageRow(date string, usageType string, hours float64) internal.UsageLogRecord {
	rec := internal.UsageLogRecord{
		UsageType:     usageType,
		StartDateRaw:  date,
		UsageHoursRaw: "x",
		UsageHours:    hours,
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		rec.StartDate = t
	}
	return rec
}

func maintRow(date string, hours float64) internal.MaintenanceRecord {
	rec := internal.MaintenanceRecord{Hours: hours, StartDateRaw: date}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		rec.StartDate = t
	}
	return rec
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeWorkweekMetrics(t *testing.T) {
	// 2024-07-01 is a Monday; the window covers exactly one workweek.
	calc := NewCalculator(8)
	usage := []internal.UsageLogRecord{
		usageRow("2024-07-01", internal.UsageExternal, 6),
		usageRow("2024-07-02", internal.UsageInternal, 4),
		usageRow("2024-07-03", internal.UsageInternalOtherDept, 2),
		usageRow("2024-07-04", "indirect support", 5),
		usageRow("2024-07-20", internal.UsageExternal, 99), // outside the window
	}
	maintenance := []internal.MaintenanceRecord{
		maintRow("2024-07-02", 3),
		maintRow("2024-08-02", 99), // outside the window
	}

	report := calc.Compute("SEM-01", day(2024, 7, 1), day(2024, 7, 5), usage, maintenance)

	if report.Workdays != 5 {
		t.Fatalf("workdays = %d, want 5", report.Workdays)
	}
	if !approx(report.AvailableHours, 40) {
		t.Errorf("available = %v, want 40", report.AvailableHours)
	}
	if !approx(report.MaintenanceHours, 3) {
		t.Errorf("maintenance = %v, want 3", report.MaintenanceHours)
	}
	if !approx(report.ActualAvailableHours, 37) {
		t.Errorf("actual available = %v, want 37", report.ActualAvailableHours)
	}
	if !approx(report.ExternalHours, 6) {
		t.Errorf("external = %v, want 6", report.ExternalHours)
	}
	// internal-other-dept counts as internal; indirect counts toward nothing.
	if !approx(report.InternalHours, 6) {
		t.Errorf("internal = %v, want 6", report.InternalHours)
	}
	if !approx(report.ActualUsageHours, 12) {
		t.Errorf("actual usage = %v, want 12", report.ActualUsageHours)
	}
	if !approx(report.UtilizationRate, 12.0/37.0) {
		t.Errorf("utilization rate = %v, want %v", report.UtilizationRate, 12.0/37.0)
	}
	if !approx(report.ExternalRate, 6.0/37.0) {
		t.Errorf("external rate = %v, want %v", report.ExternalRate, 6.0/37.0)
	}
	if report.Diagnostics != nil {
		t.Errorf("diagnostics emitted despite matched rows")
	}
}

func TestComputeWeekendWindow(t *testing.T) {
	// 2024-07-06/07 is a Saturday and Sunday: zero capacity.
	calc := NewCalculator(8)
	report := calc.Compute("SEM-01", day(2024, 7, 6), day(2024, 7, 7), nil, nil)

	if report.Workdays != 0 {
		t.Fatalf("workdays = %d, want 0", report.Workdays)
	}
	if report.AvailableHours != 0 || report.ActualAvailableHours != 0 {
		t.Errorf("available = %v / %v, want 0 / 0", report.AvailableHours, report.ActualAvailableHours)
	}
	if report.UtilizationRate != 0 || report.ExternalRate != 0 {
		t.Errorf("rates = %v / %v, want 0 / 0", report.UtilizationRate, report.ExternalRate)
	}
}

func TestComputeOvermaintainedDay(t *testing.T) {
	// More maintenance than capacity: B goes negative and the rates stay 0
	// instead of turning negative.
	calc := NewCalculator(8)
	usage := []internal.UsageLogRecord{usageRow("2024-07-01", internal.UsageExternal, 2)}
	maintenance := []internal.MaintenanceRecord{maintRow("2024-07-01", 10)}

	report := calc.Compute("SEM-01", day(2024, 7, 1), day(2024, 7, 1), usage, maintenance)

	if !approx(report.ActualAvailableHours, -2) {
		t.Fatalf("actual available = %v, want -2", report.ActualAvailableHours)
	}
	if report.UtilizationRate != 0 || report.ExternalRate != 0 {
		t.Errorf("rates = %v / %v, want 0 / 0", report.UtilizationRate, report.ExternalRate)
	}
	if !approx(report.ActualUsageHours, 2) {
		t.Errorf("actual usage = %v, want 2", report.ActualUsageHours)
	}
}

func TestComputeKoreanUsageTypeLabels(t *testing.T) {
	calc := NewCalculator(8)
	usage := []internal.UsageLogRecord{
		usageRow("2024-07-01", "외부사용", 3),
		usageRow("2024-07-01", "내부 (타부서)", 2),
	}

	report := calc.Compute("SEM-01", day(2024, 7, 1), day(2024, 7, 1), usage, nil)

	if !approx(report.ExternalHours, 3) {
		t.Errorf("external = %v, want 3", report.ExternalHours)
	}
	if !approx(report.InternalHours, 2) {
		t.Errorf("internal = %v, want 2", report.InternalHours)
	}
}

func TestComputeZeroMatchDiagnostics(t *testing.T) {
	calc := NewCalculator(8)
	var usage []internal.UsageLogRecord
	for i := 0; i < 25; i++ {
		rec := usageRow("2023-01-01", internal.UsageExternal, 1)
		rec.RowIndex = i + 2
		usage = append(usage, rec)
	}
	// An unparseable date never matches any window.
	broken := internal.UsageLogRecord{RowIndex: 27, StartDateRaw: "next tuesday", UsageType: internal.UsageExternal, UsageHours: 1}
	usage = append(usage, broken)

	report := calc.Compute("SEM-01", day(2024, 7, 1), day(2024, 7, 5), usage, nil)

	if report.ActualUsageHours != 0 {
		t.Fatalf("actual usage = %v, want 0", report.ActualUsageHours)
	}
	if len(report.Diagnostics) != diagnosticSampleSize {
		t.Fatalf("diagnostics = %d rows, want %d", len(report.Diagnostics), diagnosticSampleSize)
	}
	last := report.Diagnostics[len(report.Diagnostics)-1]
	if last.RowIndex != 27 || last.RawDate != "next tuesday" || last.ParsedDate != "" {
		t.Errorf("tail diagnostic = %+v, want row 27 with empty parsed date", last)
	}
	first := report.Diagnostics[0]
	if first.ParsedDate != "2023-01-01" {
		t.Errorf("diagnostic parsed date = %q, want 2023-01-01", first.ParsedDate)
	}
}

func TestCountWorkdays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"single monday", day(2024, 7, 1), day(2024, 7, 1), 1},
		{"full week", day(2024, 7, 1), day(2024, 7, 7), 5},
		{"inverted window", day(2024, 7, 5), day(2024, 7, 1), 0},
		{"july 2024", day(2024, 7, 1), day(2024, 7, 31), 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countWorkdays(tt.start, tt.end); got != tt.want {
				t.Errorf("countWorkdays = %d, want %d", got, tt.want)
			}
		})
	}
}
