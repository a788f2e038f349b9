package sv

import (
	"strconv"
	"strings"

	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// Segment is one alignment of a read: the primary alignment or one of its
// supplementary alignments. Segments are immutable once built.
type Segment struct {
	// Chrom is the contig name without any leading "chr".
	Chrom string
	// Start is the 0-based leftmost reference position.
	Start int
	// End is the last reference position covered, inclusive.
	End    int
	Strand Strand
	MapQ   int
	Totals CigarTotals
	Cigar  sam.Cigar
	// Primary is set for the segment built from the record itself.
	Primary bool

	readOffset int
}

// NormalizeChrom strips one leading "chr" from name.
func NormalizeChrom(name string) string {
	return strings.TrimPrefix(name, "chr")
}

// NewSegment builds a segment from an alignment starting at the 0-based
// reference position start.
func NewSegment(contig string, start int, strand Strand, mapq int, cigar sam.Cigar) (Segment, error) {
	totals, err := NewCigarTotals(cigar)
	if err != nil {
		return Segment{}, err
	}
	off, err := ReadOffset(cigar)
	if err != nil {
		return Segment{}, err
	}
	return Segment{
		Chrom:      NormalizeChrom(contig),
		Start:      start,
		End:        start + totals.Span() - 1,
		Strand:     strand,
		MapQ:       mapq,
		Totals:     totals,
		Cigar:      cigar,
		readOffset: off,
	}, nil
}

// NewPrimarySegment builds the segment for r's own alignment.
func NewPrimarySegment(r *sam.Record) (Segment, error) {
	if r.Ref == nil {
		return Segment{}, errors.Wrapf(ErrMalformedCigar, "read %s has no reference", r.Name)
	}
	s, err := NewSegment(r.Ref.Name(), r.Pos, RecordStrand(r), int(r.MapQ), r.Cigar)
	if err != nil {
		return s, errors.Wrapf(err, "read %s", r.Name)
	}
	s.Primary = true
	return s, nil
}

// ReadOffset is the offset of the segment's first matched base into the read.
func (s Segment) ReadOffset() int { return s.readOffset }

// RawCigar returns the CIGAR text.
func (s Segment) RawCigar() string { return s.Cigar.String() }

// Interval returns the reference span of the segment.
func (s Segment) Interval() Interval {
	return Interval{Chrom: s.Chrom, Start: s.Start, End: s.End, Strand: s.Strand}
}

// ParseSupplementary parses one SA aux entry of the form
//
//   rname,pos,strand,CIGAR,mapQ,NM
//
// pos is 1-based; the returned segment is 0-based. NM is validated but not
// kept.
func ParseSupplementary(desc string) (Segment, error) {
	fields := strings.Split(desc, ",")
	if len(fields) != 6 {
		return Segment{}, errors.Wrapf(ErrInvalidSupplementaryField, "%q: want 6 fields, got %d", desc, len(fields))
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil || pos < 1 {
		return Segment{}, errors.Wrapf(ErrInvalidSupplementaryField, "%q: bad position %q", desc, fields[1])
	}
	var strand Strand
	switch fields[2] {
	case "+":
		strand = Forward
	case "-":
		strand = Reverse
	default:
		return Segment{}, errors.Wrapf(ErrUnknownStrandSymbol, "%q: strand %q", desc, fields[2])
	}
	cigar, err := ParseCigar(fields[3])
	if err != nil {
		return Segment{}, errors.Wrapf(err, "%q", desc)
	}
	mapq, err := strconv.Atoi(fields[4])
	if err != nil || mapq < 0 || mapq > 255 {
		return Segment{}, errors.Wrapf(ErrInvalidSupplementaryField, "%q: bad mapq %q", desc, fields[4])
	}
	if _, err := strconv.Atoi(fields[5]); err != nil {
		return Segment{}, errors.Wrapf(ErrInvalidSupplementaryField, "%q: bad edit distance %q", desc, fields[5])
	}
	return NewSegment(fields[0], pos-1, strand, mapq, cigar)
}

// splitSupplementary returns the nonempty ';'-separated entries of an SA aux
// value.
func splitSupplementary(sa string) []string {
	var entries []string
	for _, e := range strings.Split(sa, ";") {
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// saTag is the supplementary alignment aux tag.
var saTag = sam.NewTag("SA")

// supplementaryAux returns r's SA aux value, if any.
func supplementaryAux(r *sam.Record) (string, bool) {
	aux := r.AuxFields.Get(saTag)
	if aux == nil {
		return "", false
	}
	v, ok := aux.Value().(string)
	return v, ok
}
