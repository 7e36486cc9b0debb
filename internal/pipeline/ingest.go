package pipeline

import (
	"strings"

	"usagelog/internal"
	"usagelog/internal/util"
)

// ParseUsageRow is the boundary where stringly-typed store cells become a
// typed record. Malformed dates and numbers degrade to their neutral values;
// parsing never fails, by design, because source data quality is
// uncontrolled.
func ParseUsageRow(row internal.RawUsageRow) internal.UsageLogRecord {
	cell := func(i int) string { return strings.TrimSpace(row.Cells[i]) }

	rec := internal.UsageLogRecord{
		RowIndex:         row.RowIndex,
		Purpose:          cell(internal.ColPurpose),
		UsageType:        cell(internal.ColUsageType),
		CompanyName:      cell(internal.ColCompanyName),
		CompanyTaxID:     cell(internal.ColCompanyTaxID),
		InternalDept:     cell(internal.ColInternalDept),
		Industry:         cell(internal.ColIndustry),
		Item:             cell(internal.ColItem),
		SubItem:          cell(internal.ColSubItem),
		ProductName:      cell(internal.ColProductName),
		SampleCount:      util.ParseCount(cell(internal.ColSampleCount)),
		Public:           cell(internal.ColPublicFlag) == "Y",
		DetailContent:    cell(internal.ColDetailContent),
		EquipmentName:    cell(internal.ColEquipmentName),
		EquipmentNo:      cell(internal.ColEquipmentNo),
		EquipmentType:    cell(internal.ColEquipmentType),
		StartDateRaw:     cell(internal.ColStartDate),
		EndDateRaw:       cell(internal.ColEndDate),
		IncludesHolidays: cell(internal.ColIncludesHolidays) == "Y",
		UsageHoursRaw:    cell(internal.ColUsageHours),
		UsageHours:       util.ParseHours(cell(internal.ColUsageHours)),
		Fee:              util.ParseCount(cell(internal.ColFee)),
		Note:             cell(internal.ColNote),
	}
	rec.StartDate, _ = util.ParseDate(rec.StartDateRaw)
	rec.EndDate, _ = util.ParseDate(rec.EndDateRaw)
	return rec
}

func ParseUsageRows(rows []internal.RawUsageRow) []internal.UsageLogRecord {
	out := make([]internal.UsageLogRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ParseUsageRow(row))
	}
	return out
}

func ParseMaintenanceRow(row internal.RawMaintenanceRow) internal.MaintenanceRecord {
	cell := func(i int) string { return strings.TrimSpace(row.Cells[i]) }

	rec := internal.MaintenanceRecord{
		RowIndex:     row.RowIndex,
		StartDateRaw: cell(0),
		EndDateRaw:   cell(1),
		HoursRaw:     cell(2),
		Hours:        util.ParseHours(cell(2)),
		Content:      cell(3),
	}
	rec.StartDate, _ = util.ParseDate(rec.StartDateRaw)
	rec.EndDate, _ = util.ParseDate(rec.EndDateRaw)
	return rec
}

func ParseMaintenanceRows(rows []internal.RawMaintenanceRow) []internal.MaintenanceRecord {
	out := make([]internal.MaintenanceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ParseMaintenanceRow(row))
	}
	return out
}
