package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/excord/encoding/bamprovider"
	"github.com/grailbio/excord/sv"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// outputCodec selects the compression of the evidence output.
type outputCodec int

const (
	plainOutput outputCodec = iota
	gzipOutput
	bgzfOutput
)

func codecForPath(path string) outputCodec {
	switch {
	case strings.HasSuffix(path, ".bgz"):
		return bgzfOutput
	case strings.HasSuffix(path, ".gz"):
		return gzipOutput
	}
	return plainOutput
}

// compress wraps w according to codec. The returned close function flushes
// the compressor; it does not close w.
func compress(w io.Writer, codec outputCodec, parallelism int) (io.Writer, func() error) {
	switch codec {
	case gzipOutput:
		gz := gzip.NewWriter(w)
		return gz, gz.Close
	case bgzfOutput:
		bw := bgzf.NewWriter(w, parallelism)
		return bw, bw.Close
	}
	return w, func() error { return nil }
}

// run extracts evidence from the alignment file inPath into outPath, or to
// stdout if outPath is empty.
func run(ctx context.Context, inPath, outPath string, opts *sv.Opts) (err error) {
	if err = opts.Validate(); err != nil {
		return err
	}
	provider := bamprovider.NewProvider(inPath, bamprovider.ProviderOpts{Threads: opts.Threads})
	defer func() {
		if e := provider.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if _, err = provider.GetHeader(); err != nil {
		return errors.E(err, "reading header of", inPath)
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		var out file.File
		if out, err = file.Create(ctx, outPath); err != nil {
			return errors.E(err, "couldn't create output file:", outPath)
		}
		defer file.CloseAndReport(ctx, out, &err)
		w = out.Writer(ctx)
	}
	cw, closeCompressor := compress(w, codecForPath(outPath), opts.Threads)
	if _, err = sv.Extract(ctx, provider, cw, opts); err != nil {
		closeCompressor() // nolint: errcheck
		return errors.E(err, "extracting evidence from", inPath)
	}
	if err = closeCompressor(); err != nil {
		return errors.E(err, "error writing to output file:", outPath)
	}
	return nil
}
