package pipeline

import (
	"context"
	"fmt"
	"sort"

	"usagelog/internal"
	"usagelog/internal/registry"
	"usagelog/internal/store"
)

// Importer validates candidate batches against the equipment registry and
// company index. Equipment names must match the registry exactly; company
// names may be auto-corrected to their canonical roster entry.
type Importer struct {
	equipment *registry.EquipmentRegistry
	companies *registry.CompanyIndex
}

func NewImporter(equipment *registry.EquipmentRegistry, companies *registry.CompanyIndex) *Importer {
	return &Importer{equipment: equipment, companies: companies}
}

// Review partitions the batch. Admission is all-or-nothing per row: a row
// with any reason is excluded whole, and admitted rows carry corrected
// company fields with everything else passed through verbatim. Numeric and
// date cells are deliberately not touched here; normalization happens at
// calculation time.
func (im *Importer) Review(candidates []internal.CandidateRow) internal.ImportReview {
	review := internal.ImportReview{}

	for _, candidate := range candidates {
		company := candidate.Cells[internal.ColCompanyName]
		taxID := candidate.Cells[internal.ColCompanyTaxID]
		equipment := candidate.Cells[internal.ColEquipmentName]

		var reasons []string

		if _, ok := im.equipment.Lookup(equipment); !ok {
			reasons = append(reasons, fmt.Sprintf("unregistered equipment: %s", equipment))
		}

		correctedCompany := company
		correctedTaxID := taxID
		if entry, ok := im.companies.Lookup(company); ok {
			correctedCompany = entry.CanonicalName
			correctedTaxID = entry.TaxID
			if company != correctedCompany || taxID != correctedTaxID {
				review.Corrections = append(review.Corrections, internal.ImportCorrection{
					RowNumber:        candidate.RowNumber,
					OriginalCompany:  company,
					CorrectedCompany: correctedCompany,
					OriginalTaxID:    taxID,
					CorrectedTaxID:   correctedTaxID,
				})
			}
		} else if company != "" {
			// An empty company name is tolerated; only a supplied name that
			// resolves to nothing blocks the row.
			reasons = append(reasons, fmt.Sprintf("unregistered company: %s", company))
		}

		if len(reasons) > 0 {
			review.Errors = append(review.Errors, internal.ImportRowError{
				RowNumber: candidate.RowNumber,
				Company:   company,
				Equipment: equipment,
				Reasons:   reasons,
			})
			continue
		}

		cells := make([]string, internal.UsageColumnCount)
		copy(cells, candidate.Cells)
		cells[internal.ColCompanyName] = correctedCompany
		cells[internal.ColCompanyTaxID] = correctedTaxID
		review.Admitted = append(review.Admitted, internal.CandidateRow{
			RowNumber: candidate.RowNumber,
			Cells:     cells,
		})
	}

	return review
}

// Apply appends admitted rows grouped by equipment, one batch per group. A
// failing group is recorded and skipped so sibling groups still land; the
// result counts rows actually persisted.
func Apply(ctx context.Context, st store.RowStore, admitted []internal.CandidateRow) internal.ImportApplyResult {
	groups := map[string][][]string{}
	for _, row := range admitted {
		name := row.Cells[internal.ColEquipmentName]
		groups[name] = append(groups[name], row.Cells)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	result := internal.ImportApplyResult{Groups: len(groups)}
	for _, name := range names {
		rows := groups[name]
		n, err := st.AppendUsageRows(ctx, name, rows)
		if err != nil {
			result.Failures = append(result.Failures, internal.GroupAppendFailure{
				Equipment: name,
				Rows:      len(rows),
				Err:       err.Error(),
			})
			continue
		}
		result.Persisted += n
	}
	return result
}
