package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imgeda/internal/manifest"
)

func testMeta(dir string) manifest.Meta {
	return manifest.NewMeta(dir, 3, map[string]any{"workers": 2})
}

func testRecord(path string, size int64) manifest.Record {
	return manifest.Record{
		Path:          path,
		Filename:      filepath.Base(path),
		FileSizeBytes: size,
		MTimeNS:       1700000000000000000,
		Width:         64,
		Height:        48,
		Format:        "png",
		PHash:         "a5a5a5a5a5a5a5a5",
	}
}

func TestCreateFreshWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/data")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}

	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta == nil {
		t.Fatal("expected header to be read back")
	}
	if meta.InputDir != "/data" || meta.SchemaVersion != manifest.SchemaVersion {
		t.Fatalf("unexpected header: %+v", meta)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestCreateFreshTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/old")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}
	if err := manifest.Append(path, []manifest.Record{testRecord("/old/a.png", 10)}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := manifest.CreateFresh(path, testMeta("/new")); err != nil {
		t.Fatalf("CreateFresh over existing failed: %v", err)
	}
	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta == nil || meta.InputDir != "/new" {
		t.Fatalf("expected fresh header, got %+v", meta)
	}
	if len(records) != 0 {
		t.Fatalf("expected old records discarded, got %d", len(records))
	}
}

func TestAppendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/data")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}

	batch := []manifest.Record{
		testRecord("/data/a.png", 100),
		testRecord("/data/b.png", 200),
	}
	if err := manifest.Append(path, batch); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := manifest.Append(path, []manifest.Record{testRecord("/data/c.png", 300)}); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	_, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[2].Path != "/data/c.png" || records[2].FileSizeBytes != 300 {
		t.Fatalf("unexpected final record: %+v", records[2])
	}
}

func TestReadAllSkipsTruncatedTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/data")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}
	good := []manifest.Record{
		testRecord("/data/a.png", 1),
		testRecord("/data/b.png", 2),
		testRecord("/data/c.png", 3),
	}
	if err := manifest.Append(path, good); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Simulate a crash mid-append: a partial JSON object without newline.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString(`{"path":"/data/d.png","file_si`); err != nil {
		t.Fatalf("write truncated line: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta == nil {
		t.Fatal("expected header to survive")
	}
	if len(records) != len(good) {
		t.Fatalf("expected %d records, got %d", len(good), len(records))
	}
}

func TestReadAllToleratesNoise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	lines := []string{
		"",
		`{"__manifest_meta__":true,"input_dir":"/first","schema_version":1}`,
		`not json at all`,
		`{"path":"/data/a.png","file_size_bytes":5,"mtime_ns":7}`,
		`{"__manifest_meta__":true,"input_dir":"/second","schema_version":1}`,
		"",
		`{"path":"/data/b.png","file_size_bytes":6,"mtime_ns":8}`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta == nil || meta.InputDir != "/first" {
		t.Fatalf("expected first header to win, got %+v", meta)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestReadAllMissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := os.WriteFile(path, []byte(`{"path":"/data/a.png","file_size_bytes":5,"mtime_ns":7}`+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta != nil {
		t.Fatalf("expected no header, got %+v", meta)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestReadAllMissingFile(t *testing.T) {
	if _, _, err := manifest.ReadAll(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestRewriteHeaderPreservesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/data")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}
	if err := manifest.Append(path, []manifest.Record{
		testRecord("/data/a.png", 1),
		testRecord("/data/b.png", 2),
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	updated := testMeta("/data")
	updated.TotalFiles = 2
	if err := manifest.RewriteHeader(path, updated); err != nil {
		t.Fatalf("RewriteHeader failed: %v", err)
	}

	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta == nil || meta.TotalFiles != 2 {
		t.Fatalf("expected rewritten header, got %+v", meta)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be renamed away")
	}
}

func TestRewriteHeaderDropsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/data")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}
	if err := manifest.Append(path, []manifest.Record{testRecord("/data/a.png", 1)}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString("{\"path\":\"/data/torn\n"); err != nil {
		t.Fatalf("write torn line: %v", err)
	}
	_ = f.Close()

	if err := manifest.RewriteHeader(path, testMeta("/data")); err != nil {
		t.Fatalf("RewriteHeader failed: %v", err)
	}
	_, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected torn line dropped, got %d records", len(records))
	}
}

func TestAbandonedTempFileLeavesOriginalIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	if err := manifest.CreateFresh(path, testMeta("/data")); err != nil {
		t.Fatalf("CreateFresh failed: %v", err)
	}
	if err := manifest.Append(path, []manifest.Record{testRecord("/data/a.png", 1)}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// A rewrite killed mid-temp-write leaves only a stray .tmp behind.
	if err := os.WriteFile(path+".tmp", []byte(`{"__manifest_meta__":true,"inpu`), 0o644); err != nil {
		t.Fatalf("write stray temp: %v", err)
	}

	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if meta == nil || len(records) != 1 {
		t.Fatalf("expected original manifest untouched, meta=%v records=%d", meta, len(records))
	}
}
