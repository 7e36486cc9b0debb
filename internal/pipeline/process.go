package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"usagelog/internal"
	"usagelog/internal/storage"
	"usagelog/internal/store"
)

// ReportService runs one utilization calculation end to end: fetch rows,
// parse at the ingestion boundary, compute, and record the result in the
// calc history. The returned report is the caller's to hold for the report
// view; nothing is kept in process-wide state.
type ReportService struct {
	st   store.RowStore
	db   *storage.DB
	calc *Calculator
}

func NewReportService(st store.RowStore, db *storage.DB, calc *Calculator) *ReportService {
	return &ReportService{st: st, db: db, calc: calc}
}

func (s *ReportService) Run(ctx context.Context, equipment string, start, end time.Time) (internal.UtilizationReport, error) {
	usageRows, err := s.st.FetchUsageLogRows(ctx, equipment)
	if err != nil {
		return internal.UtilizationReport{}, fmt.Errorf("fetch usage log: %w", err)
	}
	maintenanceRows, err := s.st.FetchMaintenanceRows(ctx, equipment)
	if err != nil {
		return internal.UtilizationReport{}, fmt.Errorf("fetch maintenance ledger: %w", err)
	}

	report := s.calc.Compute(equipment, start, end,
		ParseUsageRows(usageRows), ParseMaintenanceRows(maintenanceRows))

	if _, err := s.db.InsertCalcRun(report); err != nil {
		return internal.UtilizationReport{}, fmt.Errorf("record calc run: %w", err)
	}
	return report, nil
}

// ImportService reviews a candidate file and, when asked, applies the
// admitted rows. Every run lands in the ledger with its error and
// correction detail, applied or not.
type ImportService struct {
	st       store.RowStore
	db       *storage.DB
	importer *Importer
}

func NewImportService(st store.RowStore, db *storage.DB, importer *Importer) *ImportService {
	return &ImportService{st: st, db: db, importer: importer}
}

func (s *ImportService) Run(ctx context.Context, inputType, path string, apply bool) (internal.ImportReview, internal.ImportApplyResult, error) {
	candidates, err := ExtractCandidates(inputType, path)
	if err != nil {
		return internal.ImportReview{}, internal.ImportApplyResult{}, err
	}

	review := s.importer.Review(candidates)

	var applied internal.ImportApplyResult
	if apply && len(review.Admitted) > 0 {
		applied = Apply(ctx, s.st, review.Admitted)
	}

	if _, err := s.db.InsertImportRun(traceID(), inputType, path, review, apply, applied.Persisted); err != nil {
		return review, applied, fmt.Errorf("record import run: %w", err)
	}
	return review, applied, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
