package manifest

import "io/fs"

// Key identifies a file by path, size and modification time. It is the
// resume unit: a record whose key matches an on-disk file is considered
// already processed, while a changed size or mtime forces reprocessing.
// Keys are stat-based by design; no content hashing is involved.
type Key struct {
	Path    string
	Size    int64
	MTimeNS int64
}

// RecordKey derives the resume key carried by an existing record.
func RecordKey(r Record) Key {
	return Key{Path: r.Path, Size: r.FileSizeBytes, MTimeNS: r.MTimeNS}
}

// FileKey derives the resume key for an on-disk file from its stat info.
func FileKey(path string, info fs.FileInfo) Key {
	return Key{Path: path, Size: info.Size(), MTimeNS: info.ModTime().UnixNano()}
}

// ResumeIndex builds the identity-key set used to skip processed items.
func ResumeIndex(records []Record) map[Key]struct{} {
	index := make(map[Key]struct{}, len(records))
	for _, r := range records {
		index[RecordKey(r)] = struct{}{}
	}
	return index
}
