package dupes

import (
	"sort"

	"imgeda/internal/manifest"
)

const (
	// sliceCount is the number of sub-hash bucket slices per hash.
	sliceCount = 4
	// DefaultMaxBucketSize caps in-bucket pairwise comparison. Buckets
	// beyond the cap contribute zero pairs; this is a correctness
	// trade-off bounding worst-case cost, not merely an optimization.
	DefaultMaxBucketSize = 500
	// DefaultHammingThreshold accepts hash pairs at or below this distance.
	DefaultHammingThreshold = 8
)

// Group is a set of two or more records related by hash similarity.
type Group struct {
	// Hash is the shared hash for exact groups and empty for near groups.
	Hash    string
	Records []manifest.Record
}

// Option adjusts clustering behavior.
type Option func(*options)

type options struct {
	maxBucketSize int
}

// WithMaxBucketSize overrides the bucket-size cap. Values below 2 disable
// near matching entirely.
func WithMaxBucketSize(n int) Option {
	return func(o *options) {
		o.maxBucketSize = n
	}
}

// ExactGroups clusters records by literal hash equality, keeping groups of
// two or more. Corrupt and hashless records are ignored.
func ExactGroups(records []manifest.Record) []Group {
	byHash := make(map[string][]manifest.Record)
	for _, rec := range records {
		if !rec.Hashable() {
			continue
		}
		byHash[rec.PHash] = append(byHash[rec.PHash], rec)
	}

	groups := make([]Group, 0, len(byHash))
	for hash, members := range byHash {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Path < members[j].Path })
		groups = append(groups, Group{Hash: hash, Records: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Hash < groups[j].Hash })
	return groups
}

// NearGroups clusters records whose hashes lie within threshold Hamming
// distance, using sub-hash bucketing to prune candidates and union-find to
// merge accepted pairs into connected components.
func NearGroups(records []manifest.Record, threshold int, optFns ...Option) []Group {
	opts := options{maxBucketSize: DefaultMaxBucketSize}
	for _, fn := range optFns {
		fn(&opts)
	}

	hashable := make([]manifest.Record, 0, len(records))
	for _, rec := range records {
		if rec.Hashable() {
			hashable = append(hashable, rec)
		}
	}
	if len(hashable) < 2 {
		return nil
	}

	type bucketKey struct {
		slice int
		value string
	}
	buckets := make(map[bucketKey][]int)
	for idx, rec := range hashable {
		for i, sub := range SubSlices(rec.PHash) {
			key := bucketKey{slice: i, value: sub}
			buckets[key] = append(buckets[key], idx)
		}
	}

	uf := newUnionFind(len(hashable))
	matched := make(map[int]struct{})
	type pair struct{ a, b int }
	seen := make(map[pair]struct{})

	for _, indices := range buckets {
		if len(indices) < 2 || len(indices) > opts.maxBucketSize {
			continue
		}
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				a, b := indices[i], indices[j]
				if a > b {
					a, b = b, a
				}
				p := pair{a, b}
				if _, dup := seen[p]; dup {
					continue
				}
				seen[p] = struct{}{}
				dist, ok := Distance(hashable[a].PHash, hashable[b].PHash)
				if !ok || dist > threshold {
					continue
				}
				uf.union(a, b)
				matched[a] = struct{}{}
				matched[b] = struct{}{}
			}
		}
	}

	components := make(map[int][]int)
	for idx := range matched {
		root := uf.find(idx)
		components[root] = append(components[root], idx)
	}

	groups := make([]Group, 0, len(components))
	for _, member := range components {
		if len(member) < 2 {
			continue
		}
		recs := make([]manifest.Record, 0, len(member))
		for _, idx := range member {
			recs = append(recs, hashable[idx])
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })
		groups = append(groups, Group{Records: recs})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Records[0].Path < groups[j].Records[0].Path
	})
	return groups
}
