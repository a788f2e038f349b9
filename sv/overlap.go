package sv

// overlapFraction returns the length of the intersection of the closed
// intervals [aStart, aEnd] and [bStart, bEnd] divided by the length of the
// shorter one. ok is false when the intervals are disjoint.
//
// A zero-length interval that touches the other is treated as fully
// contained.
func overlapFraction(aStart, aEnd, bStart, bEnd int) (frac float64, ok bool) {
	if aEnd < bStart || aStart > bEnd {
		return 0, false
	}
	inter := minInt(aEnd, bEnd) - maxInt(aStart, bStart)
	minLen := minInt(aEnd-aStart, bEnd-bStart)
	if minLen <= 0 {
		return 1, true
	}
	return float64(inter) / float64(minLen), true
}

// Overlaps reports whether the segments a and b intersect by more than
// threshold, measured as a fraction of the shorter segment. Chromosomes are
// not compared.
func Overlaps(a, b Segment, threshold float64) bool {
	frac, ok := overlapFraction(a.Start, a.End, b.Start, b.End)
	return ok && frac > threshold
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
