package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"imgeda/internal/manifest"
)

func TestResumeIndexMatchesFileKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	rec := manifest.Record{
		Path:          path,
		FileSizeBytes: info.Size(),
		MTimeNS:       info.ModTime().UnixNano(),
	}
	index := manifest.ResumeIndex([]manifest.Record{rec})

	if _, ok := index[manifest.FileKey(path, info)]; !ok {
		t.Fatal("expected unchanged file to be indexed as processed")
	}

	changed := manifest.Key{Path: path, Size: info.Size() + 1, MTimeNS: info.ModTime().UnixNano()}
	if _, ok := index[changed]; ok {
		t.Fatal("expected changed size to miss the index")
	}
}
