// Package dupes groups scanned records into exact and near-duplicate
// clusters without comparing every pair.
//
// Near matching buckets each perceptual hash by four contiguous slices of
// its hex string; only records sharing a bucket are ever compared. Buckets
// above a size cap are skipped outright, which bounds worst-case cost at
// the price of potentially missing matches inside pathological buckets.
package dupes
