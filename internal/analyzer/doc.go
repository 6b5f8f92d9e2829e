// Package analyzer computes per-image diagnostic records: file identity,
// dimensions, per-channel pixel statistics, exposure and border-artifact
// flags, and perceptual hashes.
//
// Analyze never fails. Every error path, including panics inside image
// decoding, degrades to a record with IsCorrupt set and whatever identity
// fields were gathered before the failure.
package analyzer
