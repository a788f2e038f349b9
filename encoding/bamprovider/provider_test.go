package bamprovider_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/excord/encoding/bamprovider"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

const testSAM = "@HD\tVN:1.6\n" +
	"@SQ\tSN:chr1\tLN:100000\n" +
	"@SQ\tSN:chr2\tLN:100000\n" +
	"read1\t0\tchr1\t100\t60\t10M\t*\t0\t0\t*\t*\n" +
	"read2\t16\tchr2\t200\t30\t5S10M\t*\t0\t0\t*\t*\tSA:Z:chr1,500,+,10M5S,60,0;\n" +
	"read3\t0\tchr2\t300\t60\t20M\t*\t0\t0\t*\t*\n"

func doRead(t *testing.T, p bamprovider.Provider) []string {
	var names []string
	// Repeat the test to make sure iterators are independent.
	for i := 0; i < 2; i++ {
		names = []string{}
		iter := p.NewIterator()
		for iter.Scan() {
			names = append(names, iter.Record().Name)
		}
		require.NoError(t, iter.Err())
		require.NoError(t, iter.Close())
	}
	require.NoError(t, p.Close())
	return names
}

func writeFile(t *testing.T, path, data string, gzipped bool) {
	f, err := os.Create(path)
	require.NoError(t, err)
	if gzipped {
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(data))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
	} else {
		_, err = f.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
}

func TestGuessFileType(t *testing.T) {
	assert.Equal(t, bamprovider.BAM, bamprovider.GuessFileType("foo.bam"))
	assert.Equal(t, bamprovider.SAM, bamprovider.GuessFileType("foo.sam"))
	assert.Equal(t, bamprovider.SAM, bamprovider.GuessFileType("foo.sam.gz"))
	assert.Equal(t, bamprovider.CRAM, bamprovider.GuessFileType("foo.cram"))
	assert.Equal(t, bamprovider.Unknown, bamprovider.GuessFileType("foo.txt"))
	assert.Equal(t, bamprovider.SAM, bamprovider.ParseFileType("sam"))
	assert.Equal(t, bamprovider.Unknown, bamprovider.ParseFileType("pam"))
}

func TestSAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	for _, name := range []string{"test.sam", "test.sam.gz"} {
		path := filepath.Join(tmpDir, name)
		writeFile(t, path, testSAM, strings.HasSuffix(name, ".gz"))
		p := bamprovider.NewProvider(path)
		header, err := p.GetHeader()
		require.NoError(t, err)
		require.Len(t, header.Refs(), 2)
		assert.Equal(t, []string{"read1", "read2", "read3"}, doRead(t, p), name)
	}
}

func TestConcurrentIterators(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "test.sam")
	writeFile(t, path, testSAM, false)
	p := bamprovider.NewProvider(path)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			iter := p.NewIterator()
			n := 0
			for iter.Scan() {
				n++
			}
			assert.NoError(t, iter.Close())
			assert.Equal(t, 3, n)
		}()
	}
	wg.Wait()
	require.NoError(t, p.Close())
}

func TestSAMAux(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "test.sam")
	writeFile(t, path, testSAM, false)
	p := bamprovider.NewProvider(path)
	iter := p.NewIterator()
	require.True(t, iter.Scan())
	require.True(t, iter.Scan())
	r := iter.Record()
	aux := r.AuxFields.Get(sam.NewTag("SA"))
	require.NotNil(t, aux)
	assert.Equal(t, "chr1,500,+,10M5S,60,0;", aux.Value())
	assert.Equal(t, 199, r.Pos)
	require.NoError(t, iter.Close())
	require.NoError(t, p.Close())
}

func TestBAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	samPath := filepath.Join(tmpDir, "test.sam")
	writeFile(t, samPath, testSAM, false)
	sp := bamprovider.NewProvider(samPath)
	header, err := sp.GetHeader()
	require.NoError(t, err)

	bamPath := filepath.Join(tmpDir, "test.bam")
	f, err := os.Create(bamPath)
	require.NoError(t, err)
	w, err := bam.NewWriter(f, header, 1)
	require.NoError(t, err)
	iter := sp.NewIterator()
	for iter.Scan() {
		require.NoError(t, w.Write(iter.Record()))
	}
	require.NoError(t, iter.Close())
	require.NoError(t, sp.Close())
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	p := bamprovider.NewProvider(bamPath, bamprovider.ProviderOpts{Threads: 2})
	assert.Equal(t, []string{"read1", "read2", "read3"}, doRead(t, p))
}

func TestMissingFile(t *testing.T) {
	p := bamprovider.NewProvider("/non/existent.bam")
	_, err := p.GetHeader()
	assert.Error(t, err)
	iter := p.NewIterator()
	assert.False(t, iter.Scan())
	assert.Error(t, iter.Close())
	assert.Error(t, p.Close())
}

func TestCRAMNotSupported(t *testing.T) {
	p := bamprovider.NewProvider("foo.cram")
	_, err := p.GetHeader()
	require.Error(t, err)
	assert.True(t, errors.Is(errors.NotSupported, err))
	iter := p.NewIterator()
	assert.False(t, iter.Scan())
	assert.Error(t, iter.Close())
}

func TestFakeProvider(t *testing.T) {
	ref, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{ref})
	require.NoError(t, err)
	recs := []*sam.Record{
		{Name: "a", Ref: ref, Pos: 1},
		{Name: "b", Ref: ref, Pos: 2},
	}
	p := bamprovider.NewFakeProvider(header, recs)
	assert.Equal(t, []string{"a", "b"}, doRead(t, p))

	perr := errors.E("injected")
	p = bamprovider.NewFakeProviderWithError(header, recs, perr)
	iter := p.NewIterator()
	n := 0
	for iter.Scan() {
		r := iter.Record()
		r.Name = "modified"
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, "a", recs[0].Name)
	assert.Equal(t, perr, iter.Err())
	assert.Equal(t, perr, iter.Close())
}
