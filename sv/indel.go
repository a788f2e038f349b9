package sv

import "github.com/grailbio/hts/sam"

// IndelKind distinguishes the two kinds of alignment event.
type IndelKind uint8

const (
	// Deletion is a run of reference bases absent from the read.
	Deletion IndelKind = iota
	// Insertion is a run of read bases absent from the reference.
	Insertion
)

func (k IndelKind) String() string {
	if k == Insertion {
		return "INS"
	}
	return "DEL"
}

// IndelEvent is an insertion or deletion found inside one alignment.
//
// For a deletion, Left runs from the alignment start to the base before the
// deletion and Right runs from the base after it to the alignment end. For an
// insertion, Left runs from the alignment start to the insertion point and
// Right is zero-width at the insertion point.
type IndelEvent struct {
	Kind  IndelKind
	Left  Interval
	Right Interval
	// Length is the inserted or deleted length. For coalesced deletions it is
	// the reference distance between Left.End and Right.Start.
	Length int
}

// gap is the distance between the left breakpoint of next and the right
// breakpoint of e.
func (e IndelEvent) gap(next IndelEvent) int {
	d := next.Left.End - e.Right.Start
	if d < 0 {
		return -d
	}
	return d
}

// Evidence converts e to an output record.
func (e IndelEvent) Evidence() Evidence {
	return Evidence{Left: e.Left, Right: e.Right, Count: 1, Tag: TagAlignmentEvent}
}

// ExtractIndels walks seg's CIGAR and returns, in CIGAR order, every insertion
// or deletion of at least minLen bases.
func ExtractIndels(seg Segment, minLen int) []IndelEvent {
	var (
		pos    = seg.Start
		left   = 0
		right  = RefConsumed(seg.Cigar)
		events []IndelEvent
	)
	iv := func(start, end int) Interval {
		return Interval{Chrom: seg.Chrom, Start: start, End: end, Strand: seg.Strand}
	}
	for _, op := range seg.Cigar {
		n := op.Len()
		switch t := op.Type(); {
		case t == sam.CigarDeletion:
			right -= n
			if n >= minLen {
				events = append(events, IndelEvent{
					Kind:   Deletion,
					Left:   iv(pos, pos+left),
					Right:  iv(pos+left+n, pos+left+n+right),
					Length: n,
				})
			}
			left += n
		case t == sam.CigarInsertion:
			if n >= minLen {
				events = append(events, IndelEvent{
					Kind:   Insertion,
					Left:   iv(pos, pos+left),
					Right:  iv(pos+left, pos+left),
					Length: n,
				})
			}
		case consumesReference(t):
			left += n
			right -= n
		}
	}
	return events
}
