package main

import (
	"fmt"

	"imgeda/internal/manifest"
)

// loadManifest reads a manifest for the read-only commands, which all
// consume a fully-read (header, records) pair.
func loadManifest(path string) (*manifest.Meta, []manifest.Record, error) {
	meta, records, err := manifest.ReadAll(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return meta, records, nil
}

func passedLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "FAIL"
}
