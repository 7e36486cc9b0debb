package internal

import "time"

// Purpose values accepted on entry. Stored as free text, so legacy rows may
// carry anything.
const (
	PurposeTest        = "test"
	PurposeAnalysis    = "analysis"
	PurposeMeasurement = "measurement"
	PurposeProduction  = "production"
	PurposeTraining    = "training"
	PurposeOther       = "other"
)

const (
	UsageInternal          = "internal"
	UsageInternalOtherDept = "internal-other-dept"
	UsageExternal          = "external"
	UsageIndirect          = "indirect"
)

var Purposes = []string{PurposeTest, PurposeAnalysis, PurposeMeasurement, PurposeProduction, PurposeTraining, PurposeOther}

var UsageTypes = []string{UsageInternal, UsageInternalOtherDept, UsageExternal, UsageIndirect}

// Column positions of a usage-log row. The backing sheet has no schema beyond
// position, so this order is load-bearing for every read and write.
const (
	ColPurpose = iota
	ColUsageType
	ColCompanyName
	ColCompanyTaxID
	ColInternalDept
	ColIndustry
	ColItem
	ColSubItem
	ColProductName
	ColSampleCount
	ColPublicFlag
	ColDetailContent
	ColEquipmentName
	ColEquipmentNo
	ColEquipmentType
	ColStartDate
	ColEndDate
	ColIncludesHolidays
	ColUsageHours
	ColFee
	ColNote

	UsageColumnCount = 21
)

var UsageColumns = []string{
	"purpose", "usage_type", "company_name", "company_tax_id", "internal_dept",
	"industry", "item", "sub_item", "product_name", "sample_count",
	"public_flag", "detail_content", "equipment_name", "equipment_no", "equipment_type",
	"start_date", "end_date", "includes_holidays", "usage_hours", "fee", "note",
}

const MaintenanceColumnCount = 4

var MaintenanceColumns = []string{"start_date", "end_date", "hours", "content"}

// RawUsageRow is one store row as fetched: 21 text cells plus its positional
// row index. The index shifts on delete and must not outlive a mutation.
type RawUsageRow struct {
	RowIndex int
	Cells    []string
}

type RawMaintenanceRow struct {
	RowIndex int
	Cells    []string
}

// UsageLogRecord is the typed form produced by the ingestion boundary. Raw
// date/hours text is kept beside the parsed values for diagnostics.
type UsageLogRecord struct {
	RowIndex         int
	Purpose          string
	UsageType        string
	CompanyName      string
	CompanyTaxID     string
	InternalDept     string
	Industry         string
	Item             string
	SubItem          string
	ProductName      string
	SampleCount      int
	Public           bool
	DetailContent    string
	EquipmentName    string
	EquipmentNo      string
	EquipmentType    string
	StartDateRaw     string
	StartDate        time.Time
	EndDateRaw       string
	EndDate          time.Time
	IncludesHolidays bool
	UsageHoursRaw    string
	UsageHours       float64
	Fee              int
	Note             string
}

type MaintenanceRecord struct {
	RowIndex     int
	StartDateRaw string
	StartDate    time.Time
	EndDateRaw   string
	EndDate      time.Time
	HoursRaw     string
	Hours        float64
	Content      string
}

type CompanyRosterEntry struct {
	Name  string
	TaxID string
}

type CompanyIndexEntry struct {
	CanonicalName string
	TaxID         string
}

type EquipmentInfo struct {
	Name string
	No   string
	Type string
	Dept string
}

// CandidateRow is one bulk-import row before admission: the source file's row
// number and 21 cells in store column order.
type CandidateRow struct {
	RowNumber int
	Cells     []string
}

type ImportRowError struct {
	RowNumber int
	Company   string
	Equipment string
	Reasons   []string
}

type ImportCorrection struct {
	RowNumber        int
	OriginalCompany  string
	CorrectedCompany string
	OriginalTaxID    string
	CorrectedTaxID   string
}

// ImportReview partitions a candidate batch. Admission is all-or-nothing per
// row; admitted rows already carry corrected company fields.
type ImportReview struct {
	Admitted    []CandidateRow
	Errors      []ImportRowError
	Corrections []ImportCorrection
}

type GroupAppendFailure struct {
	Equipment string
	Rows      int
	Err       string
}

// ImportApplyResult reports what was actually persisted, not just attempted.
type ImportApplyResult struct {
	Persisted int
	Groups    int
	Failures  []GroupAppendFailure
}

// RowDiagnostic pairs raw and parsed values for one usage row. Emitted when a
// calculation window matches nothing, to surface format mismatches.
type RowDiagnostic struct {
	RowIndex    int
	RawDate     string
	ParsedDate  string
	RawHours    string
	ParsedHours float64
	UsageType   string
}

// UtilizationReport holds the full-precision metrics for one window.
// Rates are fractions; rendering to percent is the caller's concern.
type UtilizationReport struct {
	Equipment            string
	Start                time.Time
	End                  time.Time
	Workdays             int
	AvailableHours       float64 // A
	MaintenanceHours     float64 // C
	ActualAvailableHours float64 // B = A - C, may go negative
	ExternalHours        float64 // D
	InternalHours        float64 // E
	ActualUsageHours     float64 // F = D + E
	UtilizationRate      float64 // G = F / B when B > 0, else 0
	ExternalRate         float64 // H = D / B when B > 0, else 0
	Diagnostics          []RowDiagnostic
}

type GoalSeekOutcome string

const (
	GoalDeficit     GoalSeekOutcome = "DEFICIT"
	GoalSurplus     GoalSeekOutcome = "SURPLUS"
	GoalUnavailable GoalSeekOutcome = "UNAVAILABLE"
)

type GoalSeekResult struct {
	TargetRate       float64
	TargetUsageHours float64
	NeededHours      float64
	Magnitude        float64
	Outcome          GoalSeekOutcome
}
