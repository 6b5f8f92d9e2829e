// Package gate evaluates a manifest against a quality policy. It consumes
// a fully-read record set and exposes only data; translating a failed gate
// into an exit code is the caller's concern.
package gate

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"imgeda/internal/dupes"
	"imgeda/internal/manifest"
)

// sampleLimit caps how many offending paths a check carries.
const sampleLimit = 10

// Policy holds the acceptance thresholds. Percentages are 0..100.
type Policy struct {
	MinImagesTotal     int     `toml:"min_images_total"`
	MaxCorruptPct      float64 `toml:"max_corrupt_pct"`
	MaxOverexposedPct  float64 `toml:"max_overexposed_pct"`
	MaxUnderexposedPct float64 `toml:"max_underexposed_pct"`
	MaxDuplicatePct    float64 `toml:"max_duplicate_pct"`
}

// DefaultPolicy returns the thresholds applied when no policy file is given.
func DefaultPolicy() Policy {
	return Policy{
		MinImagesTotal:     100,
		MaxCorruptPct:      1.0,
		MaxOverexposedPct:  5.0,
		MaxUnderexposedPct: 5.0,
		MaxDuplicatePct:    10.0,
	}
}

// LoadPolicy reads a TOML policy file. Fields absent from the file keep
// their defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("read policy file: %w", err)
	}
	if err := toml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// Validate rejects thresholds outside their meaningful ranges.
func (p Policy) Validate() error {
	if p.MinImagesTotal < 0 {
		return fmt.Errorf("min_images_total must not be negative, got %d", p.MinImagesTotal)
	}
	for _, pct := range []struct {
		name  string
		value float64
	}{
		{"max_corrupt_pct", p.MaxCorruptPct},
		{"max_overexposed_pct", p.MaxOverexposedPct},
		{"max_underexposed_pct", p.MaxUnderexposedPct},
		{"max_duplicate_pct", p.MaxDuplicatePct},
	} {
		if pct.value < 0 || pct.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %g", pct.name, pct.value)
		}
	}
	return nil
}

// Check is one evaluated policy rule.
type Check struct {
	Name        string
	Threshold   float64
	Observed    float64
	Passed      bool
	SamplePaths []string
}

// Result is the outcome of evaluating every policy rule.
type Result struct {
	Passed      bool
	TotalImages int
	Checks      []Check
}

// Evaluate runs every policy rule over records. An empty record set fails
// the minimum-count rule immediately and skips the percentage rules.
func Evaluate(records []manifest.Record, policy Policy) Result {
	total := len(records)
	result := Result{TotalImages: total}

	if total == 0 {
		result.Checks = append(result.Checks, Check{
			Name:      "min_images_total",
			Threshold: float64(policy.MinImagesTotal),
		})
		return result
	}

	result.Checks = append(result.Checks, Check{
		Name:      "min_images_total",
		Threshold: float64(policy.MinImagesTotal),
		Observed:  float64(total),
		Passed:    total >= policy.MinImagesTotal,
	})

	result.Checks = append(result.Checks,
		flagCheck("max_corrupt_pct", policy.MaxCorruptPct, total, records,
			func(r manifest.Record) bool { return r.IsCorrupt }),
		flagCheck("max_overexposed_pct", policy.MaxOverexposedPct, total, records,
			func(r manifest.Record) bool { return r.IsOverexposed }),
		flagCheck("max_underexposed_pct", policy.MaxUnderexposedPct, total, records,
			func(r manifest.Record) bool { return r.IsDark }),
		duplicateCheck(policy.MaxDuplicatePct, total, records),
	)

	result.Passed = true
	for _, check := range result.Checks {
		if !check.Passed {
			result.Passed = false
			break
		}
	}
	return result
}

func flagCheck(name string, threshold float64, total int, records []manifest.Record, flagged func(manifest.Record) bool) Check {
	var samples []string
	count := 0
	for _, rec := range records {
		if !flagged(rec) {
			continue
		}
		count++
		if len(samples) < sampleLimit {
			samples = append(samples, rec.Path)
		}
	}
	pct := float64(count) / float64(total) * 100
	return Check{
		Name:        name,
		Threshold:   threshold,
		Observed:    round2(pct),
		Passed:      pct <= threshold,
		SamplePaths: samples,
	}
}

// duplicateCheck counts every non-first member of each exact-hash group
// as one redundant image.
func duplicateCheck(threshold float64, total int, records []manifest.Record) Check {
	var samples []string
	count := 0
	for _, group := range dupes.ExactGroups(records) {
		count += len(group.Records) - 1
		for _, rec := range group.Records[1:] {
			if len(samples) >= sampleLimit {
				break
			}
			samples = append(samples, rec.Path)
		}
	}
	pct := float64(count) / float64(total) * 100
	return Check{
		Name:        "max_duplicate_pct",
		Threshold:   threshold,
		Observed:    round2(pct),
		Passed:      pct <= threshold,
		SamplePaths: samples,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
