package pipeline

import (
	"strings"
	"time"

	"usagelog/internal"
	"usagelog/internal/util"
)

const diagnosticSampleSize = 20

// Usage-type classification is by substring so legacy rows carrying the
// Korean labels and rows written with the current values both count.
// A type may match both sets and then contributes to both sums; a type
// matching neither (e.g. indirect support) counts toward no usage at all.
var (
	internalTokens = []string{"internal", "내부"}
	externalTokens = []string{"external", "외부"}
)

// Calculator derives availability and utilization metrics for one equipment
// over an inclusive date window. Pure computation over already-fetched rows.
type Calculator struct {
	capacityPerDay float64
}

func NewCalculator(capacityHoursPerDay float64) *Calculator {
	if capacityHoursPerDay <= 0 {
		capacityHoursPerDay = 8.0
	}
	return &Calculator{capacityPerDay: capacityHoursPerDay}
}

func (c *Calculator) Compute(equipment string, start, end time.Time, usage []internal.UsageLogRecord, maintenance []internal.MaintenanceRecord) internal.UtilizationReport {
	report := internal.UtilizationReport{
		Equipment: equipment,
		Start:     start,
		End:       end,
	}

	report.Workdays = countWorkdays(start, end)
	report.AvailableHours = float64(report.Workdays) * c.capacityPerDay

	for _, rec := range maintenance {
		if !inWindow(rec.StartDate, start, end) {
			continue
		}
		report.MaintenanceHours += rec.Hours
	}
	report.ActualAvailableHours = report.AvailableHours - report.MaintenanceHours

	matched := 0
	for _, rec := range usage {
		if !inWindow(rec.StartDate, start, end) {
			continue
		}
		matched++
		if containsAny(rec.UsageType, internalTokens) {
			report.InternalHours += rec.UsageHours
		}
		if containsAny(rec.UsageType, externalTokens) {
			report.ExternalHours += rec.UsageHours
		}
	}
	report.ActualUsageHours = report.ExternalHours + report.InternalHours

	if report.ActualAvailableHours > 0 {
		report.UtilizationRate = report.ActualUsageHours / report.ActualAvailableHours
		report.ExternalRate = report.ExternalHours / report.ActualAvailableHours
	}

	if matched == 0 {
		report.Diagnostics = diagnosticSample(usage)
	}

	return report
}

// inWindow excludes rows whose date never parsed: a not-a-date start is
// treated as out of range, never an error.
func inWindow(t, start, end time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(start) && !t.After(end)
}

func countWorkdays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

// diagnosticSample pairs raw and parsed values for the most recent rows so a
// zero-match window can be traced to its format mismatch.
func diagnosticSample(usage []internal.UsageLogRecord) []internal.RowDiagnostic {
	tail := usage
	if len(tail) > diagnosticSampleSize {
		tail = tail[len(tail)-diagnosticSampleSize:]
	}

	out := make([]internal.RowDiagnostic, 0, len(tail))
	for _, rec := range tail {
		parsedDate := ""
		if !rec.StartDate.IsZero() {
			parsedDate = util.FormatDate(rec.StartDate)
		}
		out = append(out, internal.RowDiagnostic{
			RowIndex:    rec.RowIndex,
			RawDate:     rec.StartDateRaw,
			ParsedDate:  parsedDate,
			RawHours:    rec.UsageHoursRaw,
			ParsedHours: rec.UsageHours,
			UsageType:   rec.UsageType,
		})
	}
	return out
}
