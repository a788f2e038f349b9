package sv

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/syncqueue"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/excord/encoding/bamprovider"
	"github.com/grailbio/excord/interval"
	"github.com/grailbio/hts/sam"
)

// batch is a run of consecutive input records.
type batch struct {
	seq  int
	recs []*sam.Record
}

// batchResult is the rendered output of one batch.
type batchResult struct {
	buf   bytes.Buffer
	stats Stats
}

// LoadRegions returns the region restriction described by opts, or nil if
// there is none.
func LoadRegions(opts *Opts) (*interval.RegionSet, error) {
	iopts := interval.Opts{NormalizeName: NormalizeChrom}
	switch {
	case opts.Region != "":
		return interval.NewRegionSetFromString(opts.Region, iopts)
	case opts.BedPath != "":
		return interval.NewRegionSetFromPath(opts.BedPath, iopts)
	}
	return nil, nil
}

// processBatch runs the per-record pipeline over b and renders the evidence.
func processBatch(b batch, regions *interval.RegionSet, opts *Opts) (*batchResult, error) {
	res := &batchResult{}
	f := NewFormatter(&res.buf, opts.Verbose)
	for _, r := range b.recs {
		res.stats.Records++
		if !opts.Admit(r) {
			res.stats.Filtered++
			continue
		}
		if regions != nil && (r.Ref == nil ||
			!regions.Intersects(r.Ref.Name(), interval.PosType(r.Pos), interval.PosType(r.Pos+RefConsumed(r.Cigar)))) {
			res.stats.OutOfRegion++
			continue
		}
		out := ProcessRecord(r, opts)
		for _, err := range out.Errors {
			log.Debug.Printf("%v", err)
		}
		res.stats.addResult(out)
		p := RecordProvenance(r)
		for _, ev := range out.Evidence {
			if err := f.Write(ev, p); err != nil {
				return nil, err
			}
		}
	}
	if err := f.Flush(); err != nil {
		return nil, err
	}
	return res, nil
}

// Extract reads every record from provider and writes its evidence lines to
// w. Records are processed by opts.Parallelism workers in batches of
// opts.BatchSize; output is written in input order, so it does not depend on
// the degree of parallelism. Per-record errors are counted in the returned
// Stats; only input, output and cancellation errors abort the run.
func Extract(ctx context.Context, provider bamprovider.Provider, w io.Writer, opts *Opts) (Stats, error) {
	var stats Stats
	if err := opts.Validate(); err != nil {
		return stats, err
	}
	regions, err := LoadRegions(opts)
	if err != nil {
		return stats, err
	}

	var (
		e         errors.Once
		batches   = make(chan batch, opts.parallelism())
		done      = make(chan struct{})
		queue     = syncqueue.NewOrderedQueue(opts.queueLength())
		batchSize = opts.batchSize()
		wg        sync.WaitGroup
	)

	// Producer: cut the record stream into batches.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(batches)
		iter := provider.NewIterator()
		seq := 0
		recs := make([]*sam.Record, 0, batchSize)
		send := func() bool {
			if err := ctx.Err(); err != nil {
				e.Set(err)
				return false
			}
			select {
			case batches <- batch{seq: seq, recs: recs}:
				seq++
				recs = make([]*sam.Record, 0, batchSize)
				return true
			case <-done:
				return false
			case <-ctx.Done():
				e.Set(ctx.Err())
				return false
			}
		}
		for iter.Scan() {
			recs = append(recs, iter.Record())
			if len(recs) == batchSize && !send() {
				break
			}
		}
		if err := iter.Close(); err != nil {
			e.Set(err)
			return
		}
		if len(recs) > 0 && e.Err() == nil {
			send()
		}
	}()

	// Writer: drain batches in order.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			v, ok, err := queue.Next()
			if err != nil {
				e.Set(err)
				return
			}
			if !ok {
				return
			}
			res := v.(*batchResult)
			stats = stats.Merge(res.stats)
			if _, err := res.buf.WriteTo(w); err != nil {
				e.Set(err)
				queue.Close(err) // nolint: errcheck
				return
			}
		}
	}()

	err = traverse.Each(opts.parallelism(), func(int) error {
		for b := range batches {
			res, err := processBatch(b, regions, opts)
			if err != nil {
				// Fail the other workers' Inserts too.
				queue.Close(err) // nolint: errcheck
				return err
			}
			if err := queue.Insert(b.seq, res); err != nil {
				return err
			}
		}
		return nil
	})
	close(done)
	if err != nil {
		e.Set(err)
		queue.Close(err) // nolint: errcheck
		for range batches {
		}
	} else {
		e.Set(queue.Close(nil))
	}
	wg.Wait()
	if err := e.Err(); err != nil {
		return stats, err
	}
	log.Printf("sv: %v", stats)
	return stats, nil
}
