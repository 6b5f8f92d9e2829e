package testsupport

import (
	"path/filepath"
	"testing"

	"imgeda/internal/manifest"
)

// NewManifest writes a manifest with the given records under dir and
// returns its path.
func NewManifest(t testing.TB, dir, name string, records []manifest.Record) string {
	t.Helper()
	path := filepath.Join(dir, name)
	meta := manifest.NewMeta(dir, len(records), nil)
	if err := manifest.CreateFresh(path, meta); err != nil {
		t.Fatalf("create manifest %s: %v", path, err)
	}
	if err := manifest.Append(path, records); err != nil {
		t.Fatalf("append to manifest %s: %v", path, err)
	}
	return path
}

// HashedRecord builds a minimal non-corrupt record carrying a hash.
func HashedRecord(path, hash string) manifest.Record {
	return manifest.Record{
		Path:     path,
		Filename: filepath.Base(path),
		PHash:    hash,
	}
}
