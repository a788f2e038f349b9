package sv

import "sort"

// InsertionEvidence is a large insertion candidate recognized from the
// segments of one read.
type InsertionEvidence interface {
	// Markers returns the self-referential marker events for the candidate.
	Markers() []Evidence
}

// SingleSegmentClip is a read with one heavily clipped alignment; the
// insertion may be longer than the read.
type SingleSegmentClip struct {
	Segment Segment
}

// Markers implements InsertionEvidence.
func (c SingleSegmentClip) Markers() []Evidence {
	return []Evidence{markerEvidence(c.Segment.Interval(), TagLargeInsertion)}
}

// CrossChromPair is a clipped primary alignment whose one supplementary
// alignment lies on another chromosome.
type CrossChromPair struct {
	Primary Segment
}

// Markers implements InsertionEvidence.
func (c CrossChromPair) Markers() []Evidence {
	return []Evidence{markerEvidence(c.Primary.Interval(), TagLargeInsertionCrossChrom)}
}

// OverlappingSameChromPair is two clipped alignments, in read order, that
// overlap on one chromosome and strand; the insertion sits between them.
type OverlappingSameChromPair struct {
	A, B Segment
}

// Markers implements InsertionEvidence. The four segment boundaries are
// sorted and the lower three give two nested boundary estimates,
// [p0, p1] and [p0, p2].
func (c OverlappingSameChromPair) Markers() []Evidence {
	p := []int{c.A.Start, c.A.End, c.B.Start, c.B.End}
	sort.Ints(p)
	ev := make([]Evidence, 0, 2)
	for _, end := range p[1:3] {
		ev = append(ev, Evidence{
			Left:  Interval{Chrom: c.A.Chrom, Start: p[0], End: end, Strand: c.A.Strand},
			Right: Interval{Chrom: c.B.Chrom, Start: end, End: end, Strand: c.B.Strand},
			Count: 1,
			Tag:   TagLargeInsertionOverlapping,
		})
	}
	return ev
}

// classifyInsertion returns the large insertion candidate formed by the
// read-ordered segs, or nil.
func classifyInsertion(segs []Segment, opts *Opts) InsertionEvidence {
	clipped := func(s Segment) bool { return s.Totals.ClippedMoreThan(opts.InsClipMin) }
	switch len(segs) {
	case 1:
		if clipped(segs[0]) {
			return SingleSegmentClip{Segment: segs[0]}
		}
	case 2:
		a, b := segs[0], segs[1]
		if a.Chrom != b.Chrom {
			primary := a
			if b.Primary {
				primary = b
			}
			if clipped(primary) {
				return CrossChromPair{Primary: primary}
			}
			return nil
		}
		if a.Strand == b.Strand && clipped(a) && clipped(b) && Overlaps(a, b, opts.MaxPctOverlap) {
			return OverlappingSameChromPair{A: a, B: b}
		}
	}
	return nil
}
