package sv

import (
	"strings"

	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// numCigarKinds is the number of CIGAR operation kinds tracked by
// CigarTotals: M, I, D, N, S, H, P, = and X. The 'B' (back) operation is not
// supported.
const numCigarKinds = int(sam.CigarBack)

// CigarTotals holds the summed length of every CIGAR operation kind, indexed by
// sam.CigarOpType. Kinds absent from the CIGAR are zero.
type CigarTotals [numCigarKinds]int

// NewCigarTotals sums the operation lengths of c by kind.
func NewCigarTotals(c sam.Cigar) (CigarTotals, error) {
	var t CigarTotals
	for _, co := range c {
		k := co.Type()
		if int(k) >= numCigarKinds {
			return t, errors.Wrapf(ErrMalformedCigar, "unsupported operation %v in %v", co, c)
		}
		t[k] += co.Len()
	}
	return t, nil
}

// Get returns the total length of operation kind k.
func (t CigarTotals) Get(k sam.CigarOpType) int {
	if int(k) >= numCigarKinds {
		return 0
	}
	return t[k]
}

// SoftClip returns the total soft-clipped length.
func (t CigarTotals) SoftClip() int { return t[sam.CigarSoftClipped] }

// HardClip returns the total hard-clipped length.
func (t CigarTotals) HardClip() int { return t[sam.CigarHardClipped] }

// Span returns the number of reference bases covered by a split-read segment:
// deletions, matches, sequence matches and sequence mismatches. Reference
// skips are not included.
func (t CigarTotals) Span() int {
	return t[sam.CigarDeletion] + t[sam.CigarMatch] + t[sam.CigarEqual] + t[sam.CigarMismatch]
}

// ClippedMoreThan reports whether either the soft-clip or the hard-clip total
// exceeds n.
func (t CigarTotals) ClippedMoreThan(n int) bool {
	return t.SoftClip() > n || t.HardClip() > n
}

// consumesQueryBeforeMatch reports whether an operation preceding the first
// match contributes to the read offset of that match.
func consumesQueryBeforeMatch(k sam.CigarOpType) bool {
	switch k {
	case sam.CigarSoftClipped, sam.CigarInsertion, sam.CigarEqual, sam.CigarMismatch:
		return true
	}
	return false
}

// ReadOffset returns the offset into the read of the first base aligned by a
// match ('M') operation. Only the soft-clip, insertion, sequence-match and
// sequence-mismatch operations before it are counted; hard clips do not occupy
// read positions in the record.
//
// Splitters are ordered by this offset. Given CIGARs
//
//   A: 20S30M100S
//   B: 50S30M50S
//   C: 90S30M30S
//
// the order along the read is A, B, C.
func ReadOffset(c sam.Cigar) (int, error) {
	off := 0
	for _, co := range c {
		k := co.Type()
		if k == sam.CigarMatch {
			return off, nil
		}
		if consumesQueryBeforeMatch(k) {
			off += co.Len()
		}
	}
	return 0, errors.Wrapf(ErrMalformedCigar, "no match operation in %v", c)
}

// consumesReference reports whether k advances the reference position during
// the intra-alignment walk.
func consumesReference(k sam.CigarOpType) bool {
	switch k {
	case sam.CigarDeletion, sam.CigarMatch, sam.CigarSkipped, sam.CigarEqual, sam.CigarMismatch:
		return true
	}
	return false
}

// RefConsumed returns the number of reference bases consumed by c, counting
// deletions, matches, reference skips, sequence matches and sequence
// mismatches.
func RefConsumed(c sam.Cigar) int {
	n := 0
	for _, co := range c {
		if consumesReference(co.Type()) {
			n += co.Len()
		}
	}
	return n
}

// ParseCigar parses CIGAR text such as "20S30M100S". Any parse failure, and
// the empty CIGAR "*", is reported as ErrMalformedCigar.
func ParseCigar(s string) (sam.Cigar, error) {
	if err := checkCigarText(s); err != nil {
		return nil, err
	}
	c, err := sam.ParseCigar([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedCigar, "%q: %v", s, err)
	}
	if len(c) == 0 {
		return nil, errors.Wrapf(ErrMalformedCigar, "%q: empty", s)
	}
	return c, nil
}

// cigarOpLetters are the operation letters accepted by sam.ParseCigar.
const cigarOpLetters = "MIDNSHP=XB"

// maxCigarOpLen bounds the length of a single CIGAR operation.
const maxCigarOpLen = 1<<28 - 1

// checkCigarText verifies that s is "*" or a sequence of <length><op> runs.
// sam.ParseCigar panics on a length without an operation, or on an
// out-of-range length.
func checkCigarText(s string) error {
	if s == "*" {
		return nil
	}
	digits, n := 0, 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
			digits++
			n = n*10 + int(ch-'0')
			if n > maxCigarOpLen {
				return errors.Wrapf(ErrMalformedCigar, "%q: operation length out of range", s)
			}
		case strings.IndexByte(cigarOpLetters, ch) >= 0 && digits > 0:
			digits, n = 0, 0
		default:
			return errors.Wrapf(ErrMalformedCigar, "%q: unexpected %q at offset %d", s, ch, i)
		}
	}
	if digits > 0 {
		return errors.Wrapf(ErrMalformedCigar, "%q: length without operation", s)
	}
	return nil
}
