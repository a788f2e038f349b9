package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/excord/sv"
)

var (
	mapq             = flag.Int("mapq", sv.DefaultOpts.MinMapQ, "Reads with MAPQ below this level are skipped")
	excludeFlag      = flag.Int("exclude-flag", sv.DefaultOpts.ExcludeFlags, "Reads with a FLAG bit intersecting this value are skipped")
	excludeSecondary = flag.Bool("exclude-secondary", sv.DefaultOpts.ExcludeSecondary, "Skip secondary alignments")
	excludeUnmapped  = flag.Bool("exclude-unmapped", sv.DefaultOpts.ExcludeUnmapped, "Skip unmapped reads")
	indelMin         = flag.Int("indel-min", sv.DefaultOpts.IndelMin, "Minimum CIGAR insertion/deletion length reported as an alignment event")
	mergeMin         = flag.Int("merge-min", sv.DefaultOpts.MergeMin, "Adjacent deletions closer than this are merged into one event")
	insClipMin       = flag.Int("ins-clip-min", sv.DefaultOpts.InsClipMin, "Soft/hard clip length a segment must exceed to be a large-insertion candidate")
	notMerge         = flag.Bool("not-merge", sv.DefaultOpts.NotMerge, "Report alignment events without merging adjacent deletions")
	splitOnly        = flag.Bool("split-only", sv.DefaultOpts.SplitOnly, "Report split-read evidence only")
	maxPctOverlap    = flag.Float64("max-pct-overlap", sv.DefaultOpts.MaxPctOverlap, "Drop one of two adjacent segments overlapping by more than this fraction; 0 disables")
	maxSuppAlignm    = flag.Int("max-supp-alignm", sv.DefaultOpts.MaxSupplementary, "Reads with more supplementary alignments produce no split-read evidence")
	verbose          = flag.Bool("verbose", sv.DefaultOpts.Verbose, "Append tag, read name, strand and flag columns")
	region           = flag.String("region", sv.DefaultOpts.Region, "Restrict to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
	bedPath          = flag.String("bed", sv.DefaultOpts.BedPath, "Restrict to the regions in this BED file; at most one of -bed and -region")
	reference        = flag.String("reference", "", "Reference FASTA; accepted for compatibility, CRAM input is not supported")
	threads          = flag.Int("threads", sv.DefaultOpts.Threads, "Number of BAM decompression threads")
	parallelism      = flag.Int("parallelism", sv.DefaultOpts.Parallelism, "Number of reads processed concurrently; 0 = runtime.NumCPU()")
	batchSize        = flag.Int("batch-size", sv.DefaultOpts.BatchSize, "Number of records per unit of work")
	queueLength      = flag.Int("queue-length", sv.DefaultOpts.QueueLength, "Maximum number of processed batches buffered for ordered output; 0 = 4 * parallelism")
	outPath          = flag.String("out", "", "Output path; stdout if empty. A .gz suffix selects gzip, .bgz selects BGZF")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] bampath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (bampath) required; got '%s'", strings.Join(flag.Args(), " "))
	}
	if *reference != "" {
		log.Debug.Printf("-reference %s is ignored", *reference)
	}
	opts := sv.Opts{
		MinMapQ:          *mapq,
		ExcludeFlags:     *excludeFlag,
		ExcludeSecondary: *excludeSecondary,
		ExcludeUnmapped:  *excludeUnmapped,
		IndelMin:         *indelMin,
		MergeMin:         *mergeMin,
		InsClipMin:       *insClipMin,
		NotMerge:         *notMerge,
		SplitOnly:        *splitOnly,
		MaxPctOverlap:    *maxPctOverlap,
		MaxSupplementary: *maxSuppAlignm,
		Verbose:          *verbose,
		Region:           *region,
		BedPath:          *bedPath,
		Threads:          *threads,
		Parallelism:      *parallelism,
		BatchSize:        *batchSize,
		QueueLength:      *queueLength,
	}
	ctx := vcontext.Background()
	if err := run(ctx, flag.Arg(0), *outPath, &opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
