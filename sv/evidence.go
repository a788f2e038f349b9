package sv

import "github.com/grailbio/hts/sam"

// Strand is the alignment orientation, printed as 1 or -1.
type Strand int8

const (
	// Forward is the + strand.
	Forward Strand = 1
	// Reverse is the - strand.
	Reverse Strand = -1
)

// RecordStrand returns the strand of r's alignment.
func RecordStrand(r *sam.Record) Strand {
	if r.Flags&sam.Reverse != 0 {
		return Reverse
	}
	return Forward
}

// Interval is a closed genomic interval [Start, End] with 0-based coordinates.
type Interval struct {
	Chrom  string
	Start  int
	End    int
	Strand Strand
}

// Tag identifies the category of an evidence line.
type Tag string

const (
	// TagSplitRead marks a breakpoint between two segments adjacent along the
	// read.
	TagSplitRead Tag = "excord-lr-split-read"
	// TagAlignmentEvent marks an insertion or deletion found in the primary
	// CIGAR, possibly coalesced from several fragments.
	TagAlignmentEvent Tag = "excord-lr-alignment-event"
	// TagLargeInsertion marks a single heavily clipped alignment.
	TagLargeInsertion Tag = "excord-lr-alignment-event-large-ins"
	// TagLargeInsertionCrossChrom marks a clipped primary whose only
	// supplementary alignment is on another chromosome.
	TagLargeInsertionCrossChrom Tag = "excord-lr-alignment-event-large-ins-one-alignments"
	// TagLargeInsertionOverlapping marks two clipped, overlapping alignments on
	// the same chromosome and strand.
	TagLargeInsertionOverlapping Tag = "excord-lr-alignment-event-large-ins-two-alignments"
)

// AllTags lists every tag, in the order Stats reports them.
var AllTags = []Tag{
	TagSplitRead,
	TagAlignmentEvent,
	TagLargeInsertion,
	TagLargeInsertionCrossChrom,
	TagLargeInsertionOverlapping,
}

// Evidence is one output record: a directional pair of intervals.
type Evidence struct {
	Left  Interval
	Right Interval
	// Count is the event count column. For split-read evidence it is the number
	// of breakpoints reported for the read; downstream indexers treat it as a
	// confidence signal. All other evidence carries 1.
	Count int
	Tag   Tag
}

// markerEvidence returns a self-referential marker: the left interval is
// span, the right interval collapses to span's end.
func markerEvidence(span Interval, tag Tag) Evidence {
	right := span
	right.Start = span.End
	return Evidence{Left: span, Right: right, Count: 1, Tag: tag}
}
