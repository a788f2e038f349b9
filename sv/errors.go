package sv

import "github.com/pkg/errors"

var (
	// ErrMalformedCigar is reported when a CIGAR cannot be parsed, contains an
	// unsupported operation, or has no match operation. The whole read is
	// skipped.
	ErrMalformedCigar = errors.New("malformed CIGAR")
	// ErrInvalidSupplementaryField is reported for an SA entry that does not have
	// exactly six fields or whose numeric fields don't parse. Only that entry is
	// skipped.
	ErrInvalidSupplementaryField = errors.New("invalid supplementary alignment field")
	// ErrUnknownStrandSymbol is reported for an SA entry whose strand is neither
	// "+" nor "-". Only that entry is skipped.
	ErrUnknownStrandSymbol = errors.New("unknown strand symbol")
	// ErrExcessSupplementaryCount is reported when a read has more supplementary
	// alignments than Opts.MaxSupplementary. Split-read evidence is suppressed,
	// intra-alignment evidence is still produced.
	ErrExcessSupplementaryCount = errors.New("too many supplementary alignments")
)

// ErrorKind classifies a recovered per-read error for Stats.
type ErrorKind int

const (
	// KindOther is any error outside the taxonomy below.
	KindOther ErrorKind = iota
	KindMalformedCigar
	KindInvalidSupplementaryField
	KindUnknownStrandSymbol
	KindExcessSupplementaryCount
	numErrorKinds
)

var errorKindNames = [numErrorKinds]string{
	"other",
	"malformed-cigar",
	"invalid-supplementary-field",
	"unknown-strand-symbol",
	"excess-supplementary-count",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if k < 0 || k >= numErrorKinds {
		return "invalid"
	}
	return errorKindNames[k]
}

// KindOf returns the taxonomy class of err, looking through any annotations
// added by errors.Wrap.
func KindOf(err error) ErrorKind {
	switch errors.Cause(err) {
	case ErrMalformedCigar:
		return KindMalformedCigar
	case ErrInvalidSupplementaryField:
		return KindInvalidSupplementaryField
	case ErrUnknownStrandSymbol:
		return KindUnknownStrandSymbol
	case ErrExcessSupplementaryCount:
		return KindExcessSupplementaryCount
	}
	return KindOther
}
