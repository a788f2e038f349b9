package interval

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// PosType is RegionSet's coordinate type.
type PosType int32

const posTypeMax = math.MaxInt32

// Opts defines behavior of this package's loading functions.
type Opts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
	// NormalizeName, if set, is applied to every chromosome name when loading
	// and when querying. Callers use it to make "chr1" and "1" match.
	NormalizeName func(string) string
}

func (o Opts) normalize(name string) string {
	if o.NormalizeName == nil {
		return name
	}
	return o.NormalizeName(name)
}

// RegionSet is a union of half-open intervals, stored per chromosome as a
// length-2N sequence: interval #k starts at element [2k] and ends at element
// [2k+1], in increasing order. Thread safe once constructed.
type RegionSet struct {
	nameMap map[string][]PosType
	opts    Opts
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// Intersects reports whether the 0-based half-open interval [start, end) on
// chrom overlaps the set.
func (u *RegionSet) Intersects(chrom string, start, end PosType) bool {
	endpoints := u.nameMap[u.opts.normalize(chrom)]
	if endpoints == nil || end <= start {
		return false
	}
	// idx is the index of the first endpoint > start.
	idx := sort.Search(len(endpoints), func(i int) bool { return endpoints[i] > start })
	if idx&1 == 1 {
		return true
	}
	return idx != len(endpoints) && end > endpoints[idx]
}

// Chroms returns the number of chromosomes with at least one interval.
func (u *RegionSet) Chroms() int { return len(u.nameMap) }

// builder merges sorted intervals into a RegionSet.
type builder struct {
	set                RegionSet
	chr                string
	chrIntervals       []PosType
	prevStart, prevEnd PosType
	bases              int
}

func newBuilder(opts Opts) *builder {
	return &builder{set: RegionSet{nameMap: map[string][]PosType{}, opts: opts}}
}

func (b *builder) flush() {
	if b.chr == "" {
		return
	}
	if b.prevEnd > b.prevStart {
		b.chrIntervals = append(b.chrIntervals, b.prevStart, b.prevEnd)
	}
	if len(b.chrIntervals) > 0 {
		b.set.nameMap[b.chr] = b.chrIntervals
	}
}

// add appends [start, end) on chr. Intervals must be sorted by start within a
// chromosome, and each chromosome must appear in one contiguous run.
func (b *builder) add(chr string, start, end PosType) error {
	if start < 0 {
		return fmt.Errorf("interval: negative start coordinate %d", start)
	}
	if end < start || end >= posTypeMax {
		return fmt.Errorf("interval: invalid coordinate pair [%d, %d)", start, end)
	}
	chr = b.set.opts.normalize(chr)
	if chr != b.chr {
		b.flush()
		if _, found := b.set.nameMap[chr]; found {
			return fmt.Errorf("interval: unsorted input (split chromosome %v)", chr)
		}
		b.chr = chr
		b.chrIntervals = nil
		b.prevStart, b.prevEnd = start, end
		b.bases += int(end - start)
		return nil
	}
	if end == start {
		return nil
	}
	if start > b.prevEnd {
		// New interval doesn't overlap previous one, so we can save the
		// previous one.
		if b.prevEnd > b.prevStart {
			b.chrIntervals = append(b.chrIntervals, b.prevStart, b.prevEnd)
		}
		b.prevStart, b.prevEnd = start, end
		b.bases += int(end - start)
		return nil
	}
	if start < b.prevStart {
		return fmt.Errorf("interval: unsorted input on %v", chr)
	}
	// Intervals overlap, merge them.
	if end > b.prevEnd {
		b.bases += int(end - b.prevEnd)
		b.prevEnd = end
	}
	return nil
}

func (b *builder) finish() *RegionSet {
	b.flush()
	return &b.set
}

// NewRegionSetFromEntries initializes a RegionSet from a sorted []Entry.
// This ignores opts.OneBasedInput, since Start0 is defined to be zero-based.
func NewRegionSetFromEntries(entries []Entry, opts Opts) (*RegionSet, error) {
	b := newBuilder(opts)
	for _, e := range entries {
		if err := b.add(e.ChrName, e.Start0, e.End); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// NewRegionSet loads the intervals of a BED file sorted by chromosome and
// start, merging touching or overlapping intervals and eliminating empty
// ones. Only the first three columns are read; blank lines and "#", "track"
// or "browser" header lines are skipped.
func NewRegionSet(reader io.Reader, opts Opts) (*RegionSet, error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	b := newBuilder(opts)
	scanner := bufio.NewScanner(reader)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") ||
			fields[0] == "track" || fields[0] == "browser" {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("interval: line %d has fewer tokens than expected", lineIdx)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("interval: line %d: %v", lineIdx, err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("interval: line %d: %v", lineIdx, err)
		}
		start -= startSubtract
		if end >= posTypeMax {
			return nil, fmt.Errorf("interval: line %d: end %d out of range", lineIdx, end)
		}
		if err := b.add(fields[0], PosType(start), PosType(end)); err != nil {
			return nil, fmt.Errorf("%v (line %d)", err, lineIdx)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Printf("BED loaded, %d base(s) covered.", b.bases)
	return b.finish(), nil
}

// NewRegionSetFromPath is a wrapper for NewRegionSet that takes a path instead
// of an io.Reader. Gzipped files are detected by suffix.
func NewRegionSetFromPath(path string, opts Opts) (set *RegionSet, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return NewRegionSet(reader, opts)
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, posTypeMax - 1] is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.Start0 = 0
		result.End = posTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[0:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr)
			return
		}
		result.Start0 = PosType(pos1 - 1)
		result.End = PosType(pos1)
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", start1Str)
		return
	}
	var end0 int
	if end0, err = strconv.Atoi(endStr); err != nil {
		return
	}
	if end0 < start1 || end0 >= posTypeMax {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	result.Start0 = PosType(start1 - 1)
	result.End = PosType(end0)
	return
}

// NewRegionSetFromString returns the RegionSet holding the single region
// parsed by ParseRegionString.
func NewRegionSetFromString(region string, opts Opts) (*RegionSet, error) {
	e, err := ParseRegionString(region)
	if err != nil {
		return nil, err
	}
	return NewRegionSetFromEntries([]Entry{e}, opts)
}
