package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"usagelog/internal"
	"usagelog/internal/registry"
)

func testImporter() *Importer {
	equipment := registry.BuildEquipmentRegistry([]internal.EquipmentInfo{
		{Name: "SEM-01", No: "E-001", Type: "microscope", Dept: "materials"},
		{Name: "XRD-02", No: "E-002", Type: "diffractometer", Dept: "materials"},
	})
	companies := registry.BuildCompanyIndex([]internal.CompanyRosterEntry{
		{Name: "(주)한빛소재", TaxID: "123-45-67890"},
		{Name: "두리테크", TaxID: "222-33-44444"},
	})
	return NewImporter(equipment, companies)
}

func candidate(rowNumber int, company, taxID, equipment string) internal.CandidateRow {
	cells := make([]string, internal.UsageColumnCount)
	cells[internal.ColCompanyName] = company
	cells[internal.ColCompanyTaxID] = taxID
	cells[internal.ColEquipmentName] = equipment
	return internal.CandidateRow{RowNumber: rowNumber, Cells: cells}
}

func TestReviewAutoCorrectsCompany(t *testing.T) {
	im := testImporter()

	review := im.Review([]internal.CandidateRow{
		candidate(2, "한빛소재 주식회사", "", "SEM-01"),
	})

	if len(review.Errors) != 0 {
		t.Fatalf("errors = %+v, want none", review.Errors)
	}
	if len(review.Admitted) != 1 {
		t.Fatalf("admitted = %d rows, want 1", len(review.Admitted))
	}
	got := review.Admitted[0]
	if got.Cells[internal.ColCompanyName] != "(주)한빛소재" {
		t.Errorf("company = %q, want canonical roster name", got.Cells[internal.ColCompanyName])
	}
	if got.Cells[internal.ColCompanyTaxID] != "123-45-67890" {
		t.Errorf("tax id = %q, want roster tax id", got.Cells[internal.ColCompanyTaxID])
	}
	if len(review.Corrections) != 1 {
		t.Fatalf("corrections = %d, want 1", len(review.Corrections))
	}
	corr := review.Corrections[0]
	if corr.RowNumber != 2 || corr.OriginalCompany != "한빛소재 주식회사" || corr.CorrectedCompany != "(주)한빛소재" {
		t.Errorf("correction = %+v", corr)
	}
}

func TestReviewExactMatchHasNoCorrection(t *testing.T) {
	im := testImporter()

	review := im.Review([]internal.CandidateRow{
		candidate(2, "두리테크", "222-33-44444", "XRD-02"),
	})

	if len(review.Admitted) != 1 || len(review.Corrections) != 0 || len(review.Errors) != 0 {
		t.Fatalf("review = %+v, want one clean admission", review)
	}
}

func TestReviewEmptyCompanyAdmitted(t *testing.T) {
	im := testImporter()

	review := im.Review([]internal.CandidateRow{
		candidate(2, "", "", "SEM-01"),
	})

	if len(review.Admitted) != 1 {
		t.Fatalf("admitted = %d, want 1; errors = %+v", len(review.Admitted), review.Errors)
	}
	if len(review.Corrections) != 0 {
		t.Errorf("corrections = %+v, want none", review.Corrections)
	}
}

func TestReviewRejections(t *testing.T) {
	im := testImporter()

	review := im.Review([]internal.CandidateRow{
		candidate(2, "없는회사", "", "SEM-01"),
		candidate(3, "두리테크", "", "TEM-09"),
		candidate(4, "없는회사", "", "TEM-09"),
	})

	if len(review.Admitted) != 0 {
		t.Fatalf("admitted = %+v, want none", review.Admitted)
	}
	if len(review.Errors) != 3 {
		t.Fatalf("errors = %d, want 3", len(review.Errors))
	}
	if got := review.Errors[0].Reasons; len(got) != 1 || !strings.Contains(got[0], "없는회사") {
		t.Errorf("row 2 reasons = %v, want unregistered company naming it", got)
	}
	if got := review.Errors[1].Reasons; len(got) != 1 || !strings.Contains(got[0], "TEM-09") {
		t.Errorf("row 3 reasons = %v, want unregistered equipment naming it", got)
	}
	// A row failing both checks carries both reasons; admission stays
	// all-or-nothing either way.
	if got := review.Errors[2].Reasons; len(got) != 2 {
		t.Errorf("row 4 reasons = %v, want both", got)
	}
}

// appendRecorder fakes the row store for Apply: it records appends and fails
// the configured equipment groups.
type appendRecorder struct {
	fail     map[string]bool
	appended map[string]int
}

func (r *appendRecorder) AppendUsageRows(ctx context.Context, equipmentName string, rows [][]string) (int, error) {
	if r.fail[equipmentName] {
		return 0, fmt.Errorf("quota exceeded")
	}
	if r.appended == nil {
		r.appended = map[string]int{}
	}
	r.appended[equipmentName] += len(rows)
	return len(rows), nil
}

func (r *appendRecorder) FetchUsageLogRows(context.Context, string) ([]internal.RawUsageRow, error) {
	return nil, nil
}
func (r *appendRecorder) UpdateUsageRow(context.Context, string, int, []string) error { return nil }
func (r *appendRecorder) DeleteUsageRow(context.Context, string, int) error           { return nil }
func (r *appendRecorder) FetchMaintenanceRows(context.Context, string) ([]internal.RawMaintenanceRow, error) {
	return nil, nil
}
func (r *appendRecorder) AppendMaintenanceRow(context.Context, string, []string) error { return nil }
func (r *appendRecorder) FetchEquipmentRegistry(context.Context) ([]internal.EquipmentInfo, error) {
	return nil, nil
}
func (r *appendRecorder) FetchCompanyRoster(context.Context) ([]internal.CompanyRosterEntry, error) {
	return nil, nil
}

func TestApplyIsolatesFailingGroup(t *testing.T) {
	st := &appendRecorder{fail: map[string]bool{"SEM-01": true}}
	admitted := []internal.CandidateRow{
		candidate(2, "두리테크", "222-33-44444", "SEM-01"),
		candidate(3, "두리테크", "222-33-44444", "SEM-01"),
		candidate(4, "두리테크", "222-33-44444", "XRD-02"),
	}

	result := Apply(context.Background(), st, admitted)

	if result.Groups != 2 {
		t.Errorf("groups = %d, want 2", result.Groups)
	}
	if result.Persisted != 1 {
		t.Errorf("persisted = %d, want 1", result.Persisted)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %+v, want one", result.Failures)
	}
	fail := result.Failures[0]
	if fail.Equipment != "SEM-01" || fail.Rows != 2 || !strings.Contains(fail.Err, "quota") {
		t.Errorf("failure = %+v", fail)
	}
	if st.appended["XRD-02"] != 1 {
		t.Errorf("surviving group appended %d rows, want 1", st.appended["XRD-02"])
	}
}
