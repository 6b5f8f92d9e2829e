// Package diff compares two manifests of the same tree taken at
// different times: which records appeared, disappeared, or changed, and
// how the dataset-level counts moved. Like package report it only ever
// consumes fully-read record sets.
package diff

import (
	"sort"

	"imgeda/internal/dupes"
	"imgeda/internal/manifest"
)

// FieldChange is one record field whose value differs between manifests.
type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// ChangedRecord lists the differing fields of one path present in both
// manifests.
type ChangedRecord struct {
	Path   string        `json:"path"`
	Fields []FieldChange `json:"fields"`
}

// Summary holds the count deltas between the two record sets.
type Summary struct {
	TotalOld           int `json:"total_old"`
	TotalNew           int `json:"total_new"`
	AddedCount         int `json:"added_count"`
	RemovedCount       int `json:"removed_count"`
	ChangedCount       int `json:"changed_count"`
	CorruptOld         int `json:"corrupt_old"`
	CorruptNew         int `json:"corrupt_new"`
	DuplicateGroupsOld int `json:"duplicate_groups_old"`
	DuplicateGroupsNew int `json:"duplicate_groups_new"`
}

// Result is a structured comparison of two manifests. Added and Removed
// are sorted paths; Changed is sorted by path.
type Result struct {
	Added          []string        `json:"added"`
	Removed        []string        `json:"removed"`
	Changed        []ChangedRecord `json:"changed"`
	UnchangedCount int             `json:"unchanged_count"`
	Summary        Summary         `json:"summary"`
}

// compareFields lists the record fields whose change marks a record as
// changed. Timestamps and analyzer versions are excluded: a rescan of an
// identical file should diff as unchanged.
var compareFields = []struct {
	name string
	get  func(manifest.Record) any
}{
	{"file_size_bytes", func(r manifest.Record) any { return r.FileSizeBytes }},
	{"width", func(r manifest.Record) any { return r.Width }},
	{"height", func(r manifest.Record) any { return r.Height }},
	{"format", func(r manifest.Record) any { return r.Format }},
	{"color_mode", func(r manifest.Record) any { return r.ColorMode }},
	{"is_corrupt", func(r manifest.Record) any { return r.IsCorrupt }},
	{"is_dark", func(r manifest.Record) any { return r.IsDark }},
	{"is_overexposed", func(r manifest.Record) any { return r.IsOverexposed }},
	{"has_border_artifact", func(r manifest.Record) any { return r.HasBorderArtifact }},
	{"phash", func(r manifest.Record) any { return r.PHash }},
}

// Manifests compares record sets keyed by path and returns the
// structured diff.
func Manifests(oldRecords, newRecords []manifest.Record) Result {
	oldByPath := recordsByPath(oldRecords)
	newByPath := recordsByPath(newRecords)

	var result Result
	for path := range newByPath {
		if _, ok := oldByPath[path]; !ok {
			result.Added = append(result.Added, path)
		}
	}
	sort.Strings(result.Added)

	common := make([]string, 0, len(oldByPath))
	for path := range oldByPath {
		if _, ok := newByPath[path]; ok {
			common = append(common, path)
		} else {
			result.Removed = append(result.Removed, path)
		}
	}
	sort.Strings(result.Removed)
	sort.Strings(common)

	for _, path := range common {
		changes := compareRecords(oldByPath[path], newByPath[path])
		if len(changes) == 0 {
			result.UnchangedCount++
			continue
		}
		result.Changed = append(result.Changed, ChangedRecord{Path: path, Fields: changes})
	}

	result.Summary = Summary{
		TotalOld:           len(oldRecords),
		TotalNew:           len(newRecords),
		AddedCount:         len(result.Added),
		RemovedCount:       len(result.Removed),
		ChangedCount:       len(result.Changed),
		CorruptOld:         countCorrupt(oldRecords),
		CorruptNew:         countCorrupt(newRecords),
		DuplicateGroupsOld: len(dupes.ExactGroups(oldRecords)),
		DuplicateGroupsNew: len(dupes.ExactGroups(newRecords)),
	}
	return result
}

func compareRecords(oldRec, newRec manifest.Record) []FieldChange {
	var changes []FieldChange
	for _, field := range compareFields {
		oldVal := field.get(oldRec)
		newVal := field.get(newRec)
		if oldVal != newVal {
			changes = append(changes, FieldChange{Field: field.name, Old: oldVal, New: newVal})
		}
	}
	return changes
}

func recordsByPath(records []manifest.Record) map[string]manifest.Record {
	byPath := make(map[string]manifest.Record, len(records))
	for _, rec := range records {
		byPath[rec.Path] = rec
	}
	return byPath
}

func countCorrupt(records []manifest.Record) int {
	count := 0
	for _, rec := range records {
		if rec.IsCorrupt {
			count++
		}
	}
	return count
}
