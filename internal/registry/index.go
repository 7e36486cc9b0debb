package registry

import (
	"sort"
	"strings"

	"usagelog/internal"
	"usagelog/internal/util"
)

// CompanyIndex resolves free-text company names to their canonical roster
// entry, keyed by the normalized form. Duplicate normalized keys in the
// roster: last row wins, silently.
type CompanyIndex struct {
	byNormalized map[string]internal.CompanyIndexEntry
}

func BuildCompanyIndex(roster []internal.CompanyRosterEntry) *CompanyIndex {
	idx := &CompanyIndex{byNormalized: map[string]internal.CompanyIndexEntry{}}
	for _, entry := range roster {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		key := util.NormalizeCompanyName(name)
		if key == "" {
			continue
		}
		idx.byNormalized[key] = internal.CompanyIndexEntry{
			CanonicalName: name,
			TaxID:         strings.TrimSpace(entry.TaxID),
		}
	}
	return idx
}

func (idx *CompanyIndex) Lookup(rawName string) (internal.CompanyIndexEntry, bool) {
	entry, ok := idx.byNormalized[util.NormalizeCompanyName(rawName)]
	return entry, ok
}

func (idx *CompanyIndex) Len() int {
	return len(idx.byNormalized)
}

// EquipmentRegistry is the read-only reference data grouping equipment under
// departments. Names must match exactly; no normalization is ever applied.
type EquipmentRegistry struct {
	byName map[string]internal.EquipmentInfo
	byDept map[string][]string
}

func BuildEquipmentRegistry(infos []internal.EquipmentInfo) *EquipmentRegistry {
	reg := &EquipmentRegistry{
		byName: map[string]internal.EquipmentInfo{},
		byDept: map[string][]string{},
	}
	for _, info := range infos {
		name := strings.TrimSpace(info.Name)
		dept := strings.TrimSpace(info.Dept)
		if name == "" || dept == "" {
			continue
		}
		info.Name = name
		info.Dept = dept
		reg.byName[name] = info
		reg.byDept[dept] = append(reg.byDept[dept], name)
	}
	return reg
}

func (reg *EquipmentRegistry) Lookup(name string) (internal.EquipmentInfo, bool) {
	info, ok := reg.byName[name]
	return info, ok
}

func (reg *EquipmentRegistry) Departments() []string {
	out := make([]string, 0, len(reg.byDept))
	for dept := range reg.byDept {
		out = append(out, dept)
	}
	sort.Strings(out)
	return out
}

func (reg *EquipmentRegistry) Equipment(dept string) []string {
	return reg.byDept[dept]
}

func (reg *EquipmentRegistry) Len() int {
	return len(reg.byName)
}
