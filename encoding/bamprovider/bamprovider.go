package bamprovider

import (
	"context"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
	"v.io/x/lib/vlog"
)

// recordReader is the part of bam.Reader and sam.Reader used by iterators.
type recordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// opener opens a record reader over an already-open file. The returned
// closer, if non-nil, is called before the file is closed.
type opener func(ctx context.Context, in file.File) (recordReader, func() error, error)

// fileProvider is the common implementation of BAMProvider and SAMProvider.
type fileProvider struct {
	path string
	open opener
	err  errors.Once

	mu      sync.Mutex
	nActive int
	header  *sam.Header
}

type fileIterator struct {
	provider *fileProvider
	in       file.File
	reader   recordReader
	closer   func() error

	active bool
	err    error
	next   *sam.Record
}

func (p *fileProvider) getHeader() (*sam.Header, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.header != nil {
		return p.header, nil
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, p.path)
	if err != nil {
		p.err.Set(err)
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	reader, closer, err := p.open(ctx, in)
	if err != nil {
		p.err.Set(err)
		return nil, err
	}
	if closer != nil {
		defer closer() // nolint: errcheck
	}
	p.header = reader.Header()
	return p.header, nil
}

func (p *fileProvider) newIterator() Iterator {
	p.mu.Lock()
	p.nActive++
	p.mu.Unlock()

	iter := &fileIterator{provider: p, active: true}
	ctx := vcontext.Background()
	if iter.in, iter.err = file.Open(ctx, p.path); iter.err != nil {
		return iter
	}
	iter.reader, iter.closer, iter.err = p.open(ctx, iter.in)
	return iter
}

func (p *fileProvider) close() error {
	p.mu.Lock()
	n := p.nActive
	p.mu.Unlock()
	if n > 0 {
		vlog.Fatalf("%d iterators still active for %v", n, p.path)
	}
	return p.err.Err()
}

func (i *fileIterator) Scan() bool {
	if !i.active {
		vlog.Fatal("Reusing iterator")
	}
	if i.err != nil {
		return false
	}
	i.next, i.err = i.reader.Read()
	return i.err == nil
}

func (i *fileIterator) Record() *sam.Record {
	return i.next
}

// Err implements the Iterator interface.
func (i *fileIterator) Err() error {
	if i.err == io.EOF {
		return nil
	}
	return i.err
}

// Close implements the Iterator interface.
func (i *fileIterator) Close() error {
	if !i.active {
		vlog.Fatal(i)
	}
	i.active = false
	if i.closer != nil {
		if err := i.closer(); err != nil && i.err == nil {
			i.err = err
		}
		i.closer = nil
	}
	if i.in != nil {
		if err := i.in.Close(vcontext.Background()); err != nil && i.err == nil {
			i.err = err
		}
		i.in = nil
	}
	err := i.Err()
	p := i.provider
	p.err.Set(err)
	p.mu.Lock()
	p.nActive--
	if p.nActive < 0 {
		vlog.Fatalf("Negative active count for %v", p.path)
	}
	p.mu.Unlock()
	return err
}

// BAMProvider implements Provider for BAM files. The path may name any file
// scheme registered with github.com/grailbio/base/file.
type BAMProvider struct {
	// Path of the *.bam file. Must be nonempty.
	Path string
	// Threads is the number of decompression goroutines. Values <= 0 mean 1.
	Threads int

	once sync.Once
	impl *fileProvider
}

func (b *BAMProvider) provider() *fileProvider {
	b.once.Do(func() {
		threads := b.Threads
		if threads <= 0 {
			threads = 1
		}
		b.impl = &fileProvider{
			path: b.Path,
			open: func(ctx context.Context, in file.File) (recordReader, func() error, error) {
				r, err := bam.NewReader(in.Reader(ctx), threads)
				if err != nil {
					return nil, nil, err
				}
				return r, r.Close, nil
			},
		}
	})
	return b.impl
}

// GetHeader implements the Provider interface.
func (b *BAMProvider) GetHeader() (*sam.Header, error) { return b.provider().getHeader() }

// NewIterator implements the Provider interface.
func (b *BAMProvider) NewIterator() Iterator { return b.provider().newIterator() }

// Close implements the Provider interface.
func (b *BAMProvider) Close() error { return b.provider().close() }

// SAMProvider implements Provider for SAM text files. Files whose name ends in
// ".gz" are decompressed.
type SAMProvider struct {
	// Path of the *.sam or *.sam.gz file. Must be nonempty.
	Path string

	once sync.Once
	impl *fileProvider
}

func (s *SAMProvider) provider() *fileProvider {
	s.once.Do(func() {
		gzipped := fileio.DetermineType(s.Path) == fileio.Gzip
		s.impl = &fileProvider{
			path: s.Path,
			open: func(ctx context.Context, in file.File) (recordReader, func() error, error) {
				var (
					r      io.Reader = in.Reader(ctx)
					closer func() error
				)
				if gzipped {
					gz, err := gzip.NewReader(r)
					if err != nil {
						return nil, nil, err
					}
					r, closer = gz, gz.Close
				}
				sr, err := sam.NewReader(r)
				if err != nil {
					if closer != nil {
						closer() // nolint: errcheck
					}
					return nil, nil, err
				}
				return sr, closer, nil
			},
		}
	})
	return s.impl
}

// GetHeader implements the Provider interface.
func (s *SAMProvider) GetHeader() (*sam.Header, error) { return s.provider().getHeader() }

// NewIterator implements the Provider interface.
func (s *SAMProvider) NewIterator() Iterator { return s.provider().newIterator() }

// Close implements the Provider interface.
func (s *SAMProvider) Close() error { return s.provider().close() }
