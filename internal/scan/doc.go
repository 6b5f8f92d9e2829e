// Package scan drives a full or incremental scan to completion: it
// discovers candidate files, filters them against the manifest's resume
// index, dispatches the remainder to a fixed worker pool in bounded
// submission waves, and flushes completed records to the manifest at
// checkpoint intervals.
//
// A scan interrupted by the shutdown coordinator flushes its buffer and
// leaves the manifest in a valid resumable state; re-running with resume
// enabled picks up exactly the unprocessed remainder.
package scan
