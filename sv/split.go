package sv

import "sort"

// orderByRead sorts segs by their offset into the read. Segments with equal
// offsets keep their input order.
func orderByRead(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].readOffset < segs[j].readOffset
	})
}

// suppressOverlaps drops near-duplicate segments: whenever two read-adjacent
// segments on the same chromosome overlap by more than threshold, the earlier
// one is removed and the scan restarts. segs is modified in place.
func suppressOverlaps(segs []Segment, threshold float64) []Segment {
	for {
		dropped := false
		for i := 0; i+1 < len(segs); i++ {
			a, b := segs[i], segs[i+1]
			if a.Chrom != b.Chrom || !Overlaps(a, b, threshold) {
				continue
			}
			segs = append(segs[:i], segs[i+1:]...)
			dropped = true
			break
		}
		if !dropped || len(segs) < 2 {
			return segs
		}
	}
}

// genomeBefore reports whether a precedes b in (chrom, start) order. Ties
// favor a.
func genomeBefore(a, b Segment) bool {
	if a.Chrom != b.Chrom {
		return a.Chrom < b.Chrom
	}
	return a.Start <= b.Start
}

// splitPairs emits one breakpoint per read-adjacent pair of segs. Within a
// pair the genomically earlier segment is the left interval.
func splitPairs(segs []Segment) []Evidence {
	if len(segs) < 2 {
		return nil
	}
	count := len(segs) - 1
	ev := make([]Evidence, 0, count)
	for i := 1; i < len(segs); i++ {
		a, b := segs[i-1], segs[i]
		if !genomeBefore(a, b) {
			a, b = b, a
		}
		ev = append(ev, Evidence{
			Left:  a.Interval(),
			Right: b.Interval(),
			Count: count,
			Tag:   TagSplitRead,
		})
	}
	return ev
}

// AssembleSplitRead returns the split-read evidence for the segments of one
// read: large insertion markers first (unless opts.SplitOnly), then one
// breakpoint per read-adjacent pair. segs is reordered and may be truncated.
func AssembleSplitRead(segs []Segment, opts *Opts) []Evidence {
	orderByRead(segs)
	var ev []Evidence
	if !opts.SplitOnly {
		if ins := classifyInsertion(segs, opts); ins != nil {
			ev = append(ev, ins.Markers()...)
		}
	}
	if opts.MaxPctOverlap > 0 {
		segs = suppressOverlaps(segs, opts.MaxPctOverlap)
	}
	return append(ev, splitPairs(segs)...)
}
