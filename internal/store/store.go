// Package store defines the row-store contract the core computes against.
// The backing document has no transaction isolation: concurrent writers on
// the same equipment's rows can race, and that is accepted, not solved here.
package store

import (
	"context"

	"usagelog/internal"
)

type RowStore interface {
	// FetchUsageLogRows returns one equipment's rows in sheet order, header
	// excluded, each normalized to the 21-column schema. Row indices are
	// positional and stale after any mutation.
	FetchUsageLogRows(ctx context.Context, equipmentName string) ([]internal.RawUsageRow, error)

	// AppendUsageRows appends a batch as one operation and reports how many
	// rows were persisted.
	AppendUsageRows(ctx context.Context, equipmentName string, rows [][]string) (int, error)

	// UpdateUsageRow overwrites the full 21-column range of one row in place.
	UpdateUsageRow(ctx context.Context, equipmentName string, rowIndex int, cells []string) error

	// DeleteUsageRow removes one row; all subsequent rows shift up by one.
	DeleteUsageRow(ctx context.Context, equipmentName string, rowIndex int) error

	// FetchMaintenanceRows returns the equipment's maintenance ledger, empty
	// when the ledger was never provisioned.
	FetchMaintenanceRows(ctx context.Context, equipmentName string) ([]internal.RawMaintenanceRow, error)

	// AppendMaintenanceRow appends to the ledger, provisioning it with a
	// header row on first save.
	AppendMaintenanceRow(ctx context.Context, equipmentName string, cells []string) error

	FetchEquipmentRegistry(ctx context.Context) ([]internal.EquipmentInfo, error)
	FetchCompanyRoster(ctx context.Context) ([]internal.CompanyRosterEntry, error)
}
