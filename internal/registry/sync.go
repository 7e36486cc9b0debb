package registry

import (
	"context"
	"fmt"
	"time"

	"usagelog/internal/storage"
	"usagelog/internal/store"
)

// SyncService pulls master data from the sheet store into the local cache.
// The reconciliation index and equipment registry are built from the cache,
// so commands work from one consistent snapshot per sync.
type SyncService struct {
	db *storage.DB
	st store.RowStore
}

func NewSyncService(db *storage.DB, st store.RowStore) *SyncService {
	return &SyncService{db: db, st: st}
}

func (s *SyncService) Sync(ctx context.Context) (int, int, error) {
	infos, err := s.st.FetchEquipmentRegistry(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch equipment registry: %w", err)
	}
	roster, err := s.st.FetchCompanyRoster(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch company roster: %w", err)
	}

	if err := s.db.ReplaceEquipment(infos); err != nil {
		return 0, 0, err
	}
	if err := s.db.ReplaceCompanies(roster); err != nil {
		return 0, 0, err
	}
	_ = s.db.SetMetadata("master.last_sync", time.Now().UTC().Format(time.RFC3339))

	return len(infos), len(roster), nil
}

// LoadEquipmentRegistry builds the registry from the cache. An empty cache is
// an error: every log and import operation validates against it.
func LoadEquipmentRegistry(db *storage.DB) (*EquipmentRegistry, error) {
	infos, err := db.ListEquipment()
	if err != nil {
		return nil, err
	}
	reg := BuildEquipmentRegistry(infos)
	if reg.Len() == 0 {
		return nil, fmt.Errorf("equipment registry cache is empty: run master:sync first")
	}
	return reg, nil
}

func LoadCompanyIndex(db *storage.DB) (*CompanyIndex, error) {
	roster, err := db.ListCompanies()
	if err != nil {
		return nil, err
	}
	return BuildCompanyIndex(roster), nil
}
