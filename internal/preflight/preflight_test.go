package preflight_test

import (
	"os"
	"path/filepath"
	"testing"

	"imgeda/internal/preflight"
)

func TestRunHappyPath(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.jsonl")

	results, ok := preflight.Run(root, output)
	if !ok {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(results))
	}
}

func TestRunMissingRoot(t *testing.T) {
	output := filepath.Join(t.TempDir(), "manifest.jsonl")
	results, ok := preflight.Run(filepath.Join(t.TempDir(), "nope"), output)
	if ok {
		t.Fatal("missing root must fail preflight")
	}
	if results[0].Passed {
		t.Fatalf("root check should fail: %+v", results[0])
	}
}

func TestRunRootIsFile(t *testing.T) {
	rootFile := filepath.Join(t.TempDir(), "root.txt")
	if err := os.WriteFile(rootFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, ok := preflight.Run(rootFile, filepath.Join(t.TempDir(), "m.jsonl"))
	if ok {
		t.Fatal("file root must fail preflight")
	}
}

func TestRunMissingOutputDir(t *testing.T) {
	results, ok := preflight.Run(t.TempDir(), filepath.Join(t.TempDir(), "missing", "deep", "m.jsonl"))
	if ok {
		t.Fatal("missing output directory must fail preflight")
	}
	if results[1].Passed {
		t.Fatalf("output check should fail: %+v", results[1])
	}
}
