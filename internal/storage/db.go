package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"usagelog/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS equipment (
  name TEXT PRIMARY KEY,
  no TEXT,
  type TEXT,
  dept TEXT NOT NULL,
  syncedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_equipment_dept ON equipment(dept);

CREATE TABLE IF NOT EXISTS companies (
  name TEXT PRIMARY KEY,
  taxId TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  syncedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS import_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  inputRef TEXT,
  candidates INTEGER NOT NULL,
  admitted INTEGER NOT NULL,
  errors INTEGER NOT NULL,
  corrections INTEGER NOT NULL,
  applied INTEGER NOT NULL DEFAULT 0,
  persisted INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS import_errors (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  rowNumber INTEGER NOT NULL,
  company TEXT,
  equipment TEXT,
  reasons TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES import_runs(id)
);

CREATE TABLE IF NOT EXISTS import_corrections (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  rowNumber INTEGER NOT NULL,
  originalCompany TEXT,
  correctedCompany TEXT,
  originalTaxId TEXT,
  correctedTaxId TEXT,
  FOREIGN KEY(runId) REFERENCES import_runs(id)
);

CREATE TABLE IF NOT EXISTS calc_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  equipment TEXT NOT NULL,
  startDate TEXT NOT NULL,
  endDate TEXT NOT NULL,
  workdays INTEGER NOT NULL,
  availableHours REAL NOT NULL,
  maintenanceHours REAL NOT NULL,
  actualAvailableHours REAL NOT NULL,
  externalHours REAL NOT NULL,
  internalHours REAL NOT NULL,
  actualUsageHours REAL NOT NULL,
  utilizationRate REAL NOT NULL,
  externalRate REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_calc_runs_equipment ON calc_runs(equipment);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceEquipment swaps the cached registry wholesale; a sync reflects the
// sheet as-is, including removals.
func (d *DB) ReplaceEquipment(infos []internal.EquipmentInfo) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM equipment`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO equipment (name, no, type, dept) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET no=excluded.no, type=excluded.type, dept=excluded.dept, syncedAt=CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, info := range infos {
		if _, err := stmt.Exec(info.Name, info.No, info.Type, info.Dept); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListEquipment() ([]internal.EquipmentInfo, error) {
	rows, err := d.conn.Query(`SELECT name, no, type, dept FROM equipment ORDER BY dept, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EquipmentInfo
	for rows.Next() {
		var info internal.EquipmentInfo
		if err := rows.Scan(&info.Name, &info.No, &info.Type, &info.Dept); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (d *DB) ReplaceCompanies(entries []internal.CompanyRosterEntry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM companies`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO companies (name, taxId, position) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET taxId=excluded.taxId, position=excluded.position, syncedAt=CURRENT_TIMESTAMP`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, entry := range entries {
		if _, err := stmt.Exec(entry.Name, entry.TaxID, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListCompanies returns entries in roster order. The index build resolves
// normalized-key collisions by position (last row wins), so the stored
// position is load-bearing, not cosmetic.
func (d *DB) ListCompanies() ([]internal.CompanyRosterEntry, error) {
	rows, err := d.conn.Query(`SELECT name, taxId FROM companies ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CompanyRosterEntry
	for rows.Next() {
		var entry internal.CompanyRosterEntry
		if err := rows.Scan(&entry.Name, &entry.TaxID); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (d *DB) InsertImportRun(traceID, source, inputRef string, review internal.ImportReview, applied bool, persisted int) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
INSERT INTO import_runs (traceId, source, inputRef, candidates, admitted, errors, corrections, applied, persisted)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, traceID, source, inputRef,
		len(review.Admitted)+len(review.Errors), len(review.Admitted), len(review.Errors), len(review.Corrections),
		boolToInt(applied), persisted)
	if err != nil {
		return 0, err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, rowErr := range review.Errors {
		if _, err := tx.Exec(`
INSERT INTO import_errors (runId, rowNumber, company, equipment, reasons) VALUES (?, ?, ?, ?, ?)
`, runID, rowErr.RowNumber, rowErr.Company, rowErr.Equipment, strings.Join(rowErr.Reasons, ", ")); err != nil {
			return 0, err
		}
	}

	for _, corr := range review.Corrections {
		if _, err := tx.Exec(`
INSERT INTO import_corrections (runId, rowNumber, originalCompany, correctedCompany, originalTaxId, correctedTaxId)
VALUES (?, ?, ?, ?, ?, ?)
`, runID, corr.RowNumber, corr.OriginalCompany, corr.CorrectedCompany, corr.OriginalTaxID, corr.CorrectedTaxID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (d *DB) InsertCalcRun(report internal.UtilizationReport) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO calc_runs (
  equipment, startDate, endDate, workdays,
  availableHours, maintenanceHours, actualAvailableHours,
  externalHours, internalHours, actualUsageHours,
  utilizationRate, externalRate
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, report.Equipment, report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"), report.Workdays,
		report.AvailableHours, report.MaintenanceHours, report.ActualAvailableHours,
		report.ExternalHours, report.InternalHours, report.ActualUsageHours,
		report.UtilizationRate, report.ExternalRate)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

type CalcRunRow struct {
	ID        int64
	Equipment string
	StartDate string
	EndDate   string
	Workdays  int

	AvailableHours       float64
	MaintenanceHours     float64
	ActualAvailableHours float64
	ExternalHours        float64
	InternalHours        float64
	ActualUsageHours     float64
	UtilizationRate      float64
	ExternalRate         float64
	CreatedAt            string
}

func (d *DB) ListCalcRuns(equipment string, limit int) ([]CalcRunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, equipment, startDate, endDate, workdays,
       availableHours, maintenanceHours, actualAvailableHours,
       externalHours, internalHours, actualUsageHours,
       utilizationRate, externalRate, createdAt
FROM calc_runs WHERE equipment = ? ORDER BY id DESC LIMIT ?
`, equipment, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CalcRunRow
	for rows.Next() {
		var row CalcRunRow
		if err := rows.Scan(
			&row.ID, &row.Equipment, &row.StartDate, &row.EndDate, &row.Workdays,
			&row.AvailableHours, &row.MaintenanceHours, &row.ActualAvailableHours,
			&row.ExternalHours, &row.InternalHours, &row.ActualUsageHours,
			&row.UtilizationRate, &row.ExternalRate, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
