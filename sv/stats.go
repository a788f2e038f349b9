package sv

import (
	"fmt"
	"strings"
)

// Stats summarizes an extraction run.
type Stats struct {
	// Records is the number of records read from the input.
	Records int
	// Filtered counts records rejected by Opts.Admit.
	Filtered int
	// OutOfRegion counts admitted records outside the region restriction.
	OutOfRegion int
	// Processed counts records passed to ProcessRecord.
	Processed int
	// Skipped counts processed records that yielded no evidence because the
	// primary alignment was malformed.
	Skipped int
	// Errors[k] counts recovered errors of kind k.
	Errors [numErrorKinds]int
	// Lines counts output lines per tag.
	Lines map[Tag]int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Records += o.Records
	s.Filtered += o.Filtered
	s.OutOfRegion += o.OutOfRegion
	s.Processed += o.Processed
	s.Skipped += o.Skipped
	for i, n := range o.Errors {
		s.Errors[i] += n
	}
	lines := make(map[Tag]int, len(s.Lines)+len(o.Lines))
	for t, n := range s.Lines {
		lines[t] += n
	}
	for t, n := range o.Lines {
		lines[t] += n
	}
	s.Lines = lines
	return s
}

// addResult accounts for one processed record.
func (s *Stats) addResult(res Result) {
	s.Processed++
	if res.Skipped {
		s.Skipped++
	}
	for _, err := range res.Errors {
		s.Errors[KindOf(err)]++
	}
	if len(res.Evidence) > 0 && s.Lines == nil {
		s.Lines = make(map[Tag]int)
	}
	for _, ev := range res.Evidence {
		s.Lines[ev.Tag]++
	}
}

// String returns a one-line summary suitable for logging.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "records=%d filtered=%d out-of-region=%d processed=%d skipped=%d",
		s.Records, s.Filtered, s.OutOfRegion, s.Processed, s.Skipped)
	for k, n := range s.Errors {
		if n > 0 {
			fmt.Fprintf(&b, " %s=%d", ErrorKind(k), n)
		}
	}
	for _, t := range AllTags {
		fmt.Fprintf(&b, " %s=%d", t, s.Lines[t])
	}
	return b.String()
}
