// Package preflight validates the environment before a scan starts:
// readable root, writable output location, and enough free disk for the
// manifest. Failures here are reported before any work is dispatched.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// MinFreeBytes is the free-space floor for the output filesystem. A
// manifest line is small, but checkpoint flushes on multi-million-file
// trees add up.
const MinFreeBytes = 256 << 20

// Result is one environment check's outcome.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes every check against the scan root and manifest output
// path. It returns all results and ok=false if any check failed.
func Run(root, outputPath string) (results []Result, ok bool) {
	results = []Result{
		checkRootReadable(root),
		checkOutputWritable(outputPath),
		checkFreeSpace(outputPath),
	}
	ok = true
	for _, r := range results {
		if !r.Passed {
			ok = false
		}
	}
	return results, ok
}

func checkRootReadable(root string) Result {
	result := Result{Name: "root readable"}
	info, err := os.Stat(root)
	if err != nil {
		result.Detail = err.Error()
		return result
	}
	if !info.IsDir() {
		result.Detail = fmt.Sprintf("%s is not a directory", root)
		return result
	}
	if err := unix.Access(root, unix.R_OK|unix.X_OK); err != nil {
		result.Detail = fmt.Sprintf("no read access to %s: %v", root, err)
		return result
	}
	result.Passed = true
	result.Detail = root
	return result
}

func checkOutputWritable(outputPath string) Result {
	result := Result{Name: "output writable"}
	dir := filepath.Dir(outputPath)
	info, err := os.Stat(dir)
	if err != nil {
		result.Detail = fmt.Sprintf("output directory %s: %v", dir, err)
		return result
	}
	if !info.IsDir() {
		result.Detail = fmt.Sprintf("%s is not a directory", dir)
		return result
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		result.Detail = fmt.Sprintf("no write access to %s: %v", dir, err)
		return result
	}
	result.Passed = true
	result.Detail = dir
	return result
}

func checkFreeSpace(outputPath string) Result {
	result := Result{Name: "free disk space"}
	var stat unix.Statfs_t
	if err := unix.Statfs(filepath.Dir(outputPath), &stat); err != nil {
		result.Detail = fmt.Sprintf("statfs: %v", err)
		return result
	}
	free := stat.Bavail * uint64(stat.Bsize)
	result.Detail = fmt.Sprintf("%d MiB available", free>>20)
	result.Passed = free >= MinFreeBytes
	return result
}
