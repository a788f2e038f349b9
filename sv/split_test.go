package sv

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSegment(t *testing.T, chrom string, start int, strand Strand, cigar string) Segment {
	seg, err := NewSegment(chrom, start, strand, 60, mustCigar(t, cigar))
	require.NoError(t, err)
	return seg
}

func testOpts() *Opts {
	opts := DefaultOpts
	return &opts
}

func TestOverlapFraction(t *testing.T) {
	tests := []struct {
		aStart, aEnd, bStart, bEnd int
		frac                       float64
		ok                         bool
	}{
		{0, 100, 50, 150, 0.5, true},
		{0, 100, 100, 200, 0, true},
		{0, 100, 101, 200, 0, false},
		{0, 100, 10, 20, 1.0, true},
		{0, 100, 50, 50, 1.0, true},
		{200, 300, 0, 100, 0, false},
	}
	for _, tt := range tests {
		frac, ok := overlapFraction(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
		expect.EQ(t, ok, tt.ok, "%+v", tt)
		expect.EQ(t, frac, tt.frac, "%+v", tt)
		// Symmetric.
		frac2, ok2 := overlapFraction(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd)
		expect.EQ(t, ok2, ok, "%+v", tt)
		expect.EQ(t, frac2, frac, "%+v", tt)
	}
}

func TestOverlaps(t *testing.T) {
	a := mustSegment(t, "chr1", 0, Forward, "101M")
	b := mustSegment(t, "chr1", 50, Forward, "101M")
	c := mustSegment(t, "chr1", 500, Forward, "101M")
	expect.True(t, Overlaps(a, b, 0))
	expect.True(t, Overlaps(b, a, 0.4))
	expect.False(t, Overlaps(a, b, 0.5))
	expect.False(t, Overlaps(a, c, 0))
	expect.False(t, Overlaps(c, a, 0))
}

// Read order is A then B, but B is genomically first.
func TestSplitPairGenomeOrder(t *testing.T) {
	a := mustSegment(t, "chr2", 100, Forward, "30M20S")
	b := mustSegment(t, "chr1", 50, Reverse, "30S20M")
	ev := AssembleSplitRead([]Segment{b, a}, testOpts())
	require.Len(t, ev, 1)
	assert.Equal(t, Evidence{
		Left:  Interval{Chrom: "1", Start: 50, End: 69, Strand: Reverse},
		Right: Interval{Chrom: "2", Start: 100, End: 129, Strand: Forward},
		Count: 1,
		Tag:   TagSplitRead,
	}, ev[0])
}

func TestSplitPairsAdjacentInRead(t *testing.T) {
	x := mustSegment(t, "chr1", 500, Forward, "100M200S")
	y := mustSegment(t, "chr1", 100, Forward, "100S100M100S")
	z := mustSegment(t, "chr3", 10, Forward, "200S100M")
	ev := AssembleSplitRead([]Segment{z, x, y}, testOpts())
	require.Len(t, ev, 2)
	expect.EQ(t, ev[0].Left.Start, 100)
	expect.EQ(t, ev[0].Right.Start, 500)
	expect.EQ(t, ev[1].Left.Chrom, "1")
	expect.EQ(t, ev[1].Left.Start, 100)
	expect.EQ(t, ev[1].Right.Chrom, "3")
	for _, e := range ev {
		expect.EQ(t, e.Count, 2)
		expect.EQ(t, e.Tag, TagSplitRead)
		expect.True(t, !genomeBefore(
			Segment{Chrom: e.Right.Chrom, Start: e.Right.Start},
			Segment{Chrom: e.Left.Chrom, Start: e.Left.Start}) ||
			(e.Left.Chrom == e.Right.Chrom && e.Left.Start == e.Right.Start))
	}
}

func TestSuppressOverlaps(t *testing.T) {
	a := mustSegment(t, "chr1", 1000, Forward, "100M100S")
	b := mustSegment(t, "chr1", 1010, Forward, "100S90M10S")
	c := mustSegment(t, "chr5", 1000, Forward, "190S10M")

	opts := testOpts()
	ev := AssembleSplitRead([]Segment{a, b, c}, opts)
	require.Len(t, ev, 2)
	expect.EQ(t, ev[0].Count, 2)

	opts.MaxPctOverlap = 0.5
	ev = AssembleSplitRead([]Segment{a, b, c}, opts)
	require.Len(t, ev, 1)
	expect.EQ(t, ev[0].Count, 1)
	expect.EQ(t, ev[0].Left, b.Interval())
	expect.EQ(t, ev[0].Right, c.Interval())

	// The overlap must exceed the threshold.
	opts.MaxPctOverlap = 0.99
	segs := suppressOverlaps([]Segment{a, mustSegment(t, "chr1", 1050, Forward, "100S100M")}, opts.MaxPctOverlap)
	expect.EQ(t, len(segs), 2)
}

func TestSuppressOverlapsRestarts(t *testing.T) {
	a := mustSegment(t, "chr1", 1000, Forward, "100M")
	b := mustSegment(t, "chr1", 1001, Forward, "100S99M")
	c := mustSegment(t, "chr1", 1002, Forward, "200S98M")
	segs := suppressOverlaps([]Segment{a, b, c}, 0.5)
	require.Len(t, segs, 1)
	expect.EQ(t, segs[0].Start, 1002)
}

func TestSingleSegmentClip(t *testing.T) {
	opts := testOpts()
	opts.InsClipMin = 15
	seg := mustSegment(t, "chr1", 1000, Forward, "20S30M100S")
	seg.Primary = true
	ev := AssembleSplitRead([]Segment{seg}, opts)
	require.Len(t, ev, 1)
	assert.Equal(t, Evidence{
		Left:  Interval{Chrom: "1", Start: 1000, End: 1029, Strand: Forward},
		Right: Interval{Chrom: "1", Start: 1029, End: 1029, Strand: Forward},
		Count: 1,
		Tag:   TagLargeInsertion,
	}, ev[0])

	opts.InsClipMin = 150
	expect.EQ(t, len(AssembleSplitRead([]Segment{seg}, opts)), 0)

	opts.InsClipMin = 15
	opts.SplitOnly = true
	expect.EQ(t, len(AssembleSplitRead([]Segment{seg}, opts)), 0)
}

func TestCrossChromPair(t *testing.T) {
	opts := testOpts()
	primary := mustSegment(t, "chr1", 1000, Forward, "2000S100M")
	primary.Primary = true
	supp := mustSegment(t, "chr7", 5000, Forward, "1500M600S")
	ev := AssembleSplitRead([]Segment{primary, supp}, opts)
	require.Len(t, ev, 2)
	assert.Equal(t, Evidence{
		Left:  Interval{Chrom: "1", Start: 1000, End: 1099, Strand: Forward},
		Right: Interval{Chrom: "1", Start: 1099, End: 1099, Strand: Forward},
		Count: 1,
		Tag:   TagLargeInsertionCrossChrom,
	}, ev[0])
	expect.EQ(t, ev[1].Tag, TagSplitRead)
	expect.EQ(t, ev[1].Left.Chrom, "1")
	expect.EQ(t, ev[1].Right.Chrom, "7")

	// Only the primary's clip counts.
	primary = mustSegment(t, "chr1", 1000, Forward, "20S100M")
	primary.Primary = true
	ev = AssembleSplitRead([]Segment{primary, supp}, opts)
	require.Len(t, ev, 1)
	expect.EQ(t, ev[0].Tag, TagSplitRead)
}

func TestCrossChromPairPrimaryFirst(t *testing.T) {
	opts := testOpts()
	// The primary aligns the start of the read, the supplementary its end.
	primary := mustSegment(t, "chr1", 1000, Forward, "100M2000S")
	primary.Primary = true
	supp := mustSegment(t, "chr7", 5000, Forward, "600S1500M")
	ev := AssembleSplitRead([]Segment{supp, primary}, opts)
	require.Len(t, ev, 2)
	assert.Equal(t, Evidence{
		Left:  Interval{Chrom: "1", Start: 1000, End: 1099, Strand: Forward},
		Right: Interval{Chrom: "1", Start: 1099, End: 1099, Strand: Forward},
		Count: 1,
		Tag:   TagLargeInsertionCrossChrom,
	}, ev[0])
	expect.EQ(t, ev[1].Tag, TagSplitRead)

	// A heavily clipped read-second supplementary does not make a marker.
	primary = mustSegment(t, "chr1", 1000, Forward, "100M20S")
	primary.Primary = true
	supp = mustSegment(t, "chr7", 5000, Forward, "1500S1500M")
	ev = AssembleSplitRead([]Segment{supp, primary}, opts)
	require.Len(t, ev, 1)
	expect.EQ(t, ev[0].Tag, TagSplitRead)
}

func TestOverlappingSameChromPair(t *testing.T) {
	opts := testOpts()
	a := mustSegment(t, "chr1", 1000, Forward, "100M1500S")
	a.Primary = true
	b := mustSegment(t, "chr1", 1050, Forward, "1500S100M")
	ev := AssembleSplitRead([]Segment{b, a}, opts)
	require.Len(t, ev, 3)
	want := []Evidence{
		{
			Left:  Interval{Chrom: "1", Start: 1000, End: 1050, Strand: Forward},
			Right: Interval{Chrom: "1", Start: 1050, End: 1050, Strand: Forward},
			Count: 1,
			Tag:   TagLargeInsertionOverlapping,
		},
		{
			Left:  Interval{Chrom: "1", Start: 1000, End: 1099, Strand: Forward},
			Right: Interval{Chrom: "1", Start: 1099, End: 1099, Strand: Forward},
			Count: 1,
			Tag:   TagLargeInsertionOverlapping,
		},
		{
			Left:  a.Interval(),
			Right: b.Interval(),
			Count: 1,
			Tag:   TagSplitRead,
		},
	}
	assert.Equal(t, want, ev)

	// Opposite strands, or no overlap, produce no markers.
	rev := mustSegment(t, "chr1", 1050, Reverse, "1500S100M")
	expect.EQ(t, len(AssembleSplitRead([]Segment{a, rev}, opts)), 1)
	far := mustSegment(t, "chr1", 9000, Forward, "1500S100M")
	expect.EQ(t, len(AssembleSplitRead([]Segment{a, far}, opts)), 1)
	// Both must be clipped.
	short := mustSegment(t, "chr1", 1050, Forward, "150S100M")
	expect.EQ(t, len(AssembleSplitRead([]Segment{a, short}, opts)), 1)
}

func TestClassifyInsertion(t *testing.T) {
	opts := testOpts()
	seg := mustSegment(t, "chr1", 0, Forward, "10M2000S")
	expect.EQ(t, classifyInsertion([]Segment{seg}, opts), SingleSegmentClip{Segment: seg})
	expect.Nil(t, classifyInsertion(nil, opts))
	expect.Nil(t, classifyInsertion([]Segment{seg, seg, seg}, opts))
}
