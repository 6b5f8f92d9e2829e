package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// maxLineBytes bounds a single manifest line. Records are small; the
// ceiling only exists so a scanner never refuses a manifest with a long
// settings map.
const maxLineBytes = 4 * 1024 * 1024

// CreateFresh truncates (or creates) the manifest at path and writes only
// the header line. Any previous contents are discarded.
func CreateFresh(path string, meta Meta) error {
	meta.MetaMarker = true
	meta.SchemaVersion = SchemaVersion

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()

	if err := writeLine(f, meta); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync manifest: %w", err)
	}
	return f.Close()
}

// Append durably appends records, one JSON line each. The file is flushed
// and fsynced before Append returns: an acknowledged append survives a
// crash. Records append in completion order, not discovery order.
func Append(path string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open manifest for append: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		if err := writeLine(w, rec); err != nil {
			return fmt.Errorf("append record %q: %w", rec.Path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync manifest: %w", err)
	}
	return f.Close()
}

// RewriteHeader replaces the header while preserving every surviving item
// record. The new contents are written to a temp file, fsynced, and
// renamed over the original so concurrent readers never observe a partial
// manifest.
func RewriteHeader(path string, meta Meta) error {
	_, records, err := ReadAll(path)
	if err != nil {
		return err
	}

	meta.MetaMarker = true
	meta.SchemaVersion = SchemaVersion

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}

	w := bufio.NewWriter(f)
	writeErr := writeLine(w, meta)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = writeLine(w, rec)
	}
	if writeErr == nil {
		writeErr = w.Flush()
	}
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp manifest: %w", writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// ReadAll streams the manifest line by line. The first well-formed header
// wins; additional header lines and any unparsable or truncated lines are
// skipped silently. That skip is the crash-tolerance contract, not an
// error path. A missing file is an error; an empty file yields (nil, nil).
func ReadAll(path string) (*Meta, []Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var meta *Meta
	var records []Record

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var probe struct {
			MetaMarker bool `json:"__manifest_meta__"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			continue
		}

		if probe.MetaMarker {
			if meta != nil {
				continue
			}
			var m Meta
			if err := json.Unmarshal(line, &m); err != nil {
				continue
			}
			meta = &m
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}

	return meta, records, nil
}

type lineWriter interface {
	Write(p []byte) (int, error)
}

func writeLine(w lineWriter, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
