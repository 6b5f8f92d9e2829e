package dupes

import "math/bits"

// Distance returns the Hamming distance between two equal-length hex hash
// strings. ok is false when the hashes are incomparable (different length,
// empty, or not hex); incomparable hashes never match.
func Distance(a, b string) (dist int, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	for i := 0; i < len(a); i++ {
		x, okA := hexNibble(a[i])
		y, okB := hexNibble(b[i])
		if !okA || !okB {
			return 0, false
		}
		dist += bits.OnesCount8(x ^ y)
	}
	return dist, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// SubSlices splits a hash into sliceCount contiguous pieces used as bucket
// keys. Hashes shorter than sliceCount degrade to single-byte slices.
func SubSlices(hash string) []string {
	chunk := len(hash) / sliceCount
	if chunk < 1 {
		chunk = 1
	}
	out := make([]string, 0, sliceCount)
	for i := 0; i < sliceCount; i++ {
		start := i * chunk
		if start >= len(hash) {
			break
		}
		end := start + chunk
		if end > len(hash) {
			end = len(hash)
		}
		out = append(out, hash[start:end])
	}
	return out
}
