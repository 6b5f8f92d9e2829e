package diff_test

import (
	"testing"

	"imgeda/internal/diff"
	"imgeda/internal/manifest"
	"imgeda/internal/testsupport"
)

func TestManifestsAddedRemovedChanged(t *testing.T) {
	oldRecords := []manifest.Record{
		{Path: "/data/keep.png", FileSizeBytes: 100, Width: 64, Height: 64, Format: "png", PHash: "1111111111111111"},
		{Path: "/data/gone.png", FileSizeBytes: 50, Format: "png", PHash: "2222222222222222"},
		{Path: "/data/resized.png", FileSizeBytes: 200, Width: 640, Height: 480, Format: "png", PHash: "3333333333333333"},
	}
	newRecords := []manifest.Record{
		{Path: "/data/keep.png", FileSizeBytes: 100, Width: 64, Height: 64, Format: "png", PHash: "1111111111111111"},
		{Path: "/data/resized.png", FileSizeBytes: 80, Width: 320, Height: 240, Format: "png", PHash: "3333333333333333"},
		{Path: "/data/fresh.png", FileSizeBytes: 10, Format: "png", PHash: "4444444444444444"},
	}

	result := diff.Manifests(oldRecords, newRecords)

	if len(result.Added) != 1 || result.Added[0] != "/data/fresh.png" {
		t.Fatalf("unexpected added set: %v", result.Added)
	}
	if len(result.Removed) != 1 || result.Removed[0] != "/data/gone.png" {
		t.Fatalf("unexpected removed set: %v", result.Removed)
	}
	if result.UnchangedCount != 1 {
		t.Fatalf("unchanged count = %d, want 1", result.UnchangedCount)
	}
	if len(result.Changed) != 1 || result.Changed[0].Path != "/data/resized.png" {
		t.Fatalf("unexpected changed set: %+v", result.Changed)
	}

	fields := make(map[string]diff.FieldChange)
	for _, change := range result.Changed[0].Fields {
		fields[change.Field] = change
	}
	if len(fields) != 3 {
		t.Fatalf("expected size, width and height changes, got %v", fields)
	}
	if fc, ok := fields["width"]; !ok || fc.Old != 640 || fc.New != 320 {
		t.Fatalf("unexpected width change: %+v", fc)
	}
	if _, ok := fields["phash"]; ok {
		t.Fatal("unchanged phash must not be reported")
	}

	s := result.Summary
	if s.TotalOld != 3 || s.TotalNew != 3 || s.AddedCount != 1 || s.RemovedCount != 1 || s.ChangedCount != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestManifestsTracksCorruptAndDuplicateDeltas(t *testing.T) {
	oldRecords := []manifest.Record{
		testsupport.HashedRecord("/data/a.png", "aaaaaaaaaaaaaaaa"),
		testsupport.HashedRecord("/data/b.png", "bbbbbbbbbbbbbbbb"),
	}
	newRecords := []manifest.Record{
		testsupport.HashedRecord("/data/a.png", "aaaaaaaaaaaaaaaa"),
		testsupport.HashedRecord("/data/b.png", "aaaaaaaaaaaaaaaa"),
		{Path: "/data/c.png", IsCorrupt: true},
	}

	result := diff.Manifests(oldRecords, newRecords)
	s := result.Summary
	if s.CorruptOld != 0 || s.CorruptNew != 1 {
		t.Fatalf("unexpected corrupt delta: %+v", s)
	}
	if s.DuplicateGroupsOld != 0 || s.DuplicateGroupsNew != 1 {
		t.Fatalf("unexpected duplicate-group delta: %+v", s)
	}

	// b.png's hash moved into a's group: a changed record, not a removal.
	if len(result.Changed) != 1 || result.Changed[0].Path != "/data/b.png" {
		t.Fatalf("unexpected changed set: %+v", result.Changed)
	}
}

func TestManifestsEmptyInputs(t *testing.T) {
	result := diff.Manifests(nil, nil)
	if len(result.Added) != 0 || len(result.Removed) != 0 || len(result.Changed) != 0 {
		t.Fatalf("empty inputs should diff empty: %+v", result)
	}
	if result.Summary.TotalOld != 0 || result.Summary.TotalNew != 0 {
		t.Fatalf("unexpected summary: %+v", result.Summary)
	}

	only := []manifest.Record{testsupport.HashedRecord("/data/a.png", "aaaaaaaaaaaaaaaa")}
	result = diff.Manifests(nil, only)
	if len(result.Added) != 1 || result.Summary.AddedCount != 1 {
		t.Fatalf("all-new diff should report one addition: %+v", result)
	}
	result = diff.Manifests(only, nil)
	if len(result.Removed) != 1 || result.Summary.RemovedCount != 1 {
		t.Fatalf("all-old diff should report one removal: %+v", result)
	}
}
