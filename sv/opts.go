package sv

import (
	"fmt"
	"runtime"

	"github.com/grailbio/base/errors"
)

// Opts configures evidence extraction. It is read-only once Extract starts.
type Opts struct {
	// Record admission.
	MinMapQ          int
	ExcludeFlags     int
	ExcludeSecondary bool
	ExcludeUnmapped  bool

	// IndelMin is the minimum CIGAR insertion or deletion length reported as an
	// alignment event.
	IndelMin int
	// MergeMin is the exclusive upper bound on the gap between two adjacent
	// deletion events that are coalesced.
	MergeMin int
	// InsClipMin is the clip length a segment must exceed to be a large
	// insertion candidate.
	InsClipMin int
	// NotMerge disables coalescing of alignment events.
	NotMerge bool
	// SplitOnly disables alignment events and large insertion markers.
	SplitOnly bool
	// MaxPctOverlap is the overlap fraction above which adjacent segments on
	// one chromosome are considered duplicates. Zero disables suppression; the
	// large insertion overlap test still uses it as its threshold.
	MaxPctOverlap float64
	// MaxSupplementary is the maximum number of SA entries a read may carry
	// before its split-read evidence is dropped.
	MaxSupplementary int
	// Verbose appends the tag, read name, record strand and flags to each line.
	Verbose bool

	// Region restriction: "chr:start-end", or a BED file.
	Region  string
	BedPath string

	// Threads is the number of BAM decompression goroutines.
	Threads int
	// Parallelism is the number of records processed concurrently. Zero means
	// runtime.NumCPU().
	Parallelism int
	// BatchSize is the number of records per unit of work.
	BatchSize int
	// QueueLength bounds the number of batches buffered for ordered output.
	// Zero means 4*Parallelism.
	QueueLength int
}

// DefaultOpts holds the defaults used by the excord-lr command.
var DefaultOpts = Opts{
	MinMapQ:          1,
	ExcludeFlags:     1796,
	IndelMin:         50,
	MergeMin:         5,
	InsClipMin:       1000,
	MaxPctOverlap:    0.0,
	MaxSupplementary: 4,
	Threads:          8,
	BatchSize:        1024,
}

// Validate checks opts for values that cannot be honored.
func (o *Opts) Validate() error {
	switch {
	case o.MinMapQ < 0 || o.MinMapQ > 255:
		return errors.E(errors.Invalid, fmt.Sprintf("mapq must be in [0, 255]; got %v", o.MinMapQ))
	case o.ExcludeFlags < 0 || o.ExcludeFlags > 0xffff:
		return errors.E(errors.Invalid, fmt.Sprintf("exclude-flag must fit in 16 bits; got %v", o.ExcludeFlags))
	case o.IndelMin < 1:
		return errors.E(errors.Invalid, fmt.Sprintf("indel-min must be positive; got %v", o.IndelMin))
	case o.MergeMin < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("merge-min must not be negative; got %v", o.MergeMin))
	case o.InsClipMin < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("ins-clip-min must not be negative; got %v", o.InsClipMin))
	case o.MaxPctOverlap < 0 || o.MaxPctOverlap > 1:
		return errors.E(errors.Invalid, fmt.Sprintf("max-pct-overlap must be in [0, 1]; got %v", o.MaxPctOverlap))
	case o.MaxSupplementary < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("max-supp-alignm must not be negative; got %v", o.MaxSupplementary))
	case o.Region != "" && o.BedPath != "":
		return errors.E(errors.Invalid, "at most one of region and bed may be set")
	case o.Threads < 0 || o.Parallelism < 0 || o.BatchSize < 0 || o.QueueLength < 0:
		return errors.E(errors.Invalid, "threads, parallelism, batch-size and queue-length must not be negative")
	}
	return nil
}

func (o *Opts) parallelism() int {
	if o.Parallelism > 0 {
		return o.Parallelism
	}
	return runtime.NumCPU()
}

func (o *Opts) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultOpts.BatchSize
}

func (o *Opts) queueLength() int {
	if o.QueueLength > 0 {
		return o.QueueLength
	}
	return 4 * o.parallelism()
}
