package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"usagelog/internal"
	"usagelog/internal/util"
)

// WriteImportTemplate emits the empty 21-column template whose header order
// import files are matched against.
func WriteImportTemplate(outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range internal.UsageColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	return saveAs(f, outputPath)
}

// ExportUsageRowsToXLSX writes raw log rows (store column order, verbatim)
// with the template header.
func ExportUsageRowsToXLSX(rows []internal.RawUsageRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range internal.UsageColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		for col, value := range row.Cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	return saveAs(f, outputPath)
}

// ExportReportToXLSX writes the metric table (A through H) plus the
// goal-seek block when present.
func ExportReportToXLSX(report internal.UtilizationReport, goal *internal.GoalSeekResult, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}

	set(1, 1, "equipment")
	set(2, 1, report.Equipment)
	set(1, 2, "period")
	set(2, 2, fmt.Sprintf("%s ~ %s", util.FormatDate(report.Start), util.FormatDate(report.End)))
	set(1, 3, "workdays")
	set(2, 3, report.Workdays)

	headers := []string{
		"available_hours (A)",
		"actual_available_hours (B)=(A)-(C)",
		"maintenance_hours (C)",
		"external_hours (D)",
		"internal_hours (E)",
		"actual_usage_hours (F)=(D)+(E)",
		"utilization_rate (G)=(F)/(B)",
		"external_rate (H)=(D)/(B)",
	}
	values := []any{
		report.AvailableHours,
		report.ActualAvailableHours,
		report.MaintenanceHours,
		report.ExternalHours,
		report.InternalHours,
		report.ActualUsageHours,
		fmt.Sprintf("%.2f%%", report.UtilizationRate*100),
		fmt.Sprintf("%.2f%%", report.ExternalRate*100),
	}
	for i, h := range headers {
		set(i+1, 5, h)
		set(i+1, 6, values[i])
	}

	if goal != nil {
		set(1, 8, "target_rate")
		set(2, 8, fmt.Sprintf("%.1f%%", goal.TargetRate))
		set(1, 9, "target_usage_hours")
		set(2, 9, goal.TargetUsageHours)
		set(1, 10, "outcome")
		set(2, 10, string(goal.Outcome))
		set(1, 11, "hours")
		set(2, 11, goal.Magnitude)
	}

	return saveAs(f, outputPath)
}

func saveAs(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
