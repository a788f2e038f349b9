package sv

import (
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// Admit reports whether r passes the record filters in o. Records without a
// CIGAR are never admitted.
func (o *Opts) Admit(r *sam.Record) bool {
	switch {
	case o.ExcludeSecondary && r.Flags&sam.Secondary != 0,
		o.ExcludeUnmapped && r.Flags&sam.Unmapped != 0,
		int(r.MapQ) < o.MinMapQ,
		o.ExcludeFlags&int(r.Flags) != 0,
		len(r.Cigar) == 0:
		return false
	}
	return true
}

// Result is the evidence derived from one record.
type Result struct {
	// Evidence holds large insertion markers, then split-read breakpoints, then
	// alignment events.
	Evidence []Evidence
	// Errors holds every recovered error, in the order encountered.
	Errors []error
	// Skipped is set when the primary alignment could not be interpreted and
	// no evidence was produced.
	Skipped bool
}

// ProcessRecord derives all evidence for the admitted record r. Errors never
// abort processing of other records: a malformed primary skips r, a
// malformed SA entry skips that entry, and too many SA entries drop only the
// split-read evidence.
func ProcessRecord(r *sam.Record, opts *Opts) Result {
	var res Result
	primary, err := NewPrimarySegment(r)
	if err != nil {
		res.Errors = append(res.Errors, err)
		res.Skipped = true
		return res
	}

	var entries []string
	if sa, ok := supplementaryAux(r); ok {
		entries = splitSupplementary(sa)
	}
	if len(entries) > opts.MaxSupplementary {
		res.Errors = append(res.Errors, errors.Wrapf(ErrExcessSupplementaryCount,
			"read %s: %d supplementary alignments, max %d", r.Name, len(entries), opts.MaxSupplementary))
	} else {
		segs := make([]Segment, 1, len(entries)+1)
		segs[0] = primary
		for _, e := range entries {
			seg, err := ParseSupplementary(e)
			if err != nil {
				res.Errors = append(res.Errors, errors.Wrapf(err, "read %s", r.Name))
				continue
			}
			segs = append(segs, seg)
		}
		res.Evidence = append(res.Evidence, AssembleSplitRead(segs, opts)...)
	}

	if !opts.SplitOnly {
		events := ExtractIndels(primary, opts.IndelMin)
		if !opts.NotMerge {
			events = MergeIndels(events, opts.MergeMin)
		}
		for _, e := range events {
			res.Evidence = append(res.Evidence, e.Evidence())
		}
	}
	return res
}
