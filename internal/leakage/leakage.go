// Package leakage finds images shared between named dataset splits, the
// classic train/validation contamination problem. It applies the same
// sub-hash bucket and Hamming matching primitive as package dupes, across
// partitions instead of within one.
package leakage

import (
	"sort"

	"imgeda/internal/dupes"
	"imgeda/internal/manifest"
)

// Match types reported per leaked item.
const (
	MatchExact = "exact"
	MatchNear  = "near"
)

// Leak is one image found in more than one split. An item is reported at
// most once even when it matches several partners.
type Leak struct {
	Path        string   `json:"path"`
	PHash       string   `json:"phash"`
	FoundIn     []string `json:"found_in"`
	MatchType   string   `json:"match_type"`
	MatchedPath string   `json:"matched_path,omitempty"`
}

// Detect reports images appearing in multiple splits, exactly or within
// threshold Hamming distance. A threshold of 0 disables near matching.
func Detect(splits map[string][]manifest.Record, threshold int) []Leak {
	var leaks []Leak
	seen := make(map[string]struct{})

	leaks = append(leaks, detectExact(splits, seen)...)
	if threshold > 0 {
		leaks = append(leaks, detectNear(splits, threshold, seen)...)
	}

	sort.Slice(leaks, func(i, j int) bool { return leaks[i].Path < leaks[j].Path })
	return leaks
}

// detectExact records every path whose hash appears in more than one split.
func detectExact(splits map[string][]manifest.Record, seen map[string]struct{}) []Leak {
	type entry struct {
		split string
		path  string
	}
	index := make(map[string][]entry)
	for name, records := range splits {
		for _, rec := range records {
			if !rec.Hashable() {
				continue
			}
			index[rec.PHash] = append(index[rec.PHash], entry{split: name, path: rec.Path})
		}
	}

	var leaks []Leak
	for hash, entries := range index {
		names := make(map[string]struct{})
		for _, e := range entries {
			names[e.split] = struct{}{}
		}
		if len(names) < 2 {
			continue
		}
		foundIn := sortedNames(names)
		for _, e := range entries {
			if _, dup := seen[e.path]; dup {
				continue
			}
			seen[e.path] = struct{}{}
			leaks = append(leaks, Leak{
				Path:      e.path,
				PHash:     hash,
				FoundIn:   foundIn,
				MatchType: MatchExact,
			})
		}
	}
	return leaks
}

// detectNear probes each split pair: B's hashes are bucketed by sub-hash
// slice, A's hashes query the buckets, and surviving candidates go through
// the Hamming test. Exactly equal hashes are skipped; the exact pass
// already reported them.
func detectNear(splits map[string][]manifest.Record, threshold int, seen map[string]struct{}) []Leak {
	type hashed struct {
		hash string
		path string
	}
	names := make([]string, 0, len(splits))
	for name := range splits {
		names = append(names, name)
	}
	sort.Strings(names)

	bySplit := make([][]hashed, len(names))
	for i, name := range names {
		for _, rec := range splits[name] {
			if rec.Hashable() {
				bySplit[i] = append(bySplit[i], hashed{hash: rec.PHash, path: rec.Path})
			}
		}
	}

	var leaks []Leak
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			buckets := make(map[string][]hashed)
			for _, h := range bySplit[j] {
				for _, sub := range dupes.SubSlices(h.hash) {
					buckets[sub] = append(buckets[sub], h)
				}
			}

			for _, probe := range bySplit[i] {
				if _, dup := seen[probe.path]; dup {
					continue
				}
				candidates := make(map[string]hashed)
				for _, sub := range dupes.SubSlices(probe.hash) {
					for _, cand := range buckets[sub] {
						candidates[cand.path] = cand
					}
				}

				paths := make([]string, 0, len(candidates))
				for p := range candidates {
					paths = append(paths, p)
				}
				sort.Strings(paths)

				for _, p := range paths {
					cand := candidates[p]
					if _, dup := seen[cand.path]; dup {
						continue
					}
					if cand.hash == probe.hash {
						continue
					}
					dist, ok := dupes.Distance(probe.hash, cand.hash)
					if !ok || dist > threshold {
						continue
					}
					seen[probe.path] = struct{}{}
					seen[cand.path] = struct{}{}
					leaks = append(leaks, Leak{
						Path:        probe.path,
						PHash:       probe.hash,
						FoundIn:     []string{names[i], names[j]},
						MatchType:   MatchNear,
						MatchedPath: cand.path,
					})
					break
				}
			}
		}
	}
	return leaks
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
