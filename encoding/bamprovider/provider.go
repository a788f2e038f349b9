package bamprovider

import (
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// ProviderOpts defines options for NewProvider.
type ProviderOpts struct {
	// Threads is the number of BGZF decompression goroutines used by the BAM
	// reader. Values <= 0 mean 1.
	Threads int
}

// Provider allows reading a BAM or SAM file. Thread safe.
type Provider interface {
	// GetHeader returns the header for the provided data.  The callee
	// must not modify the returned header object.
	//
	// REQUIRES: Close has not been called.
	GetHeader() (*sam.Header, error)

	// NewIterator returns an iterator over all records, in file order.
	//
	// REQUIRES: Close has not been called.
	NewIterator() Iterator

	// Close must be called exactly once. It returns any error encountered
	// by the provider, or any iterator created by the provider.
	//
	// REQUIRES: All the iterators created by NewIterator have been closed.
	Close() error
}

// Iterator iterates over sam.Records. Thread compatible.
type Iterator interface {
	// Scan returns where there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of the file, Scan() returns false.  If an error
	// occurs, Scan() returns false and the error can be retrieved by
	// calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true. The caller owns the
	// record.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encoutered during iteration, or nil if no error
	// occurred.  An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

// FileType represents the type of an alignment file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// BAM file
	BAM
	// SAM file, possibly gzipped
	SAM
	// CRAM file
	CRAM
)

// ParseFileType parses the file type string. "bam" returns bamprovider.BAM, for
// example. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch name {
	case "bam":
		return BAM
	case "sam":
		return SAM
	case "cram":
		return CRAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the pathname. Returns Unknown if
// the suffix is not recognized.
func GuessFileType(path string) FileType {
	switch {
	case strings.HasSuffix(path, ".bam"):
		return BAM
	case strings.HasSuffix(path, ".sam"), strings.HasSuffix(path, ".sam.gz"):
		return SAM
	case strings.HasSuffix(path, ".cram"):
		return CRAM
	}
	vlog.VI(1).Infof("%v: could not detect file type.", path)
	return Unknown
}

func mergeOpts(optList []ProviderOpts) ProviderOpts {
	opts := ProviderOpts{}
	for _, o := range optList {
		if o.Threads > 0 {
			opts.Threads = o.Threads
		}
	}
	return opts
}

// NewProvider creates a Provider object that can handle the BAM or SAM file
// "path". The file type is autodetected from the path; unknown types are read
// as BAM. For CRAM, the provider reports errors.NotSupported from every
// method.
func NewProvider(path string, optList ...ProviderOpts) Provider {
	opts := mergeOpts(optList)
	switch GuessFileType(path) {
	case BAM, Unknown:
		return &BAMProvider{Path: path, Threads: opts.Threads}
	case SAM:
		return &SAMProvider{Path: path}
	case CRAM:
		return &errorProvider{err: errors.E(errors.NotSupported, path, "CRAM input is not supported; convert to BAM first")}
	}
	panic("shouldn't reach here")
}
