package sv

import (
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/sam"
)

// Provenance identifies the record evidence came from. It is printed only in
// verbose mode.
type Provenance struct {
	ReadName string
	Strand   Strand
	Flags    sam.Flags
}

// RecordProvenance returns the provenance of r.
func RecordProvenance(r *sam.Record) Provenance {
	return Provenance{ReadName: r.Name, Strand: RecordStrand(r), Flags: r.Flags}
}

// Formatter renders evidence as tab-separated lines:
//
//   leftChrom leftStart leftEnd leftStrand rightChrom rightStart rightEnd rightStrand count
//
// followed, in verbose mode, by tag, read name, record strand and record
// flags. Output is buffered; call Flush when done.
type Formatter struct {
	w       *tsv.Writer
	verbose bool
}

// NewFormatter returns a Formatter writing to w.
func NewFormatter(w io.Writer, verbose bool) *Formatter {
	return &Formatter{w: tsv.NewWriter(w), verbose: verbose}
}

func (f *Formatter) writeInterval(iv Interval) {
	f.w.WriteString(iv.Chrom)
	f.w.WriteUint32(uint32(iv.Start))
	f.w.WriteUint32(uint32(iv.End))
	f.w.WriteString(iv.Strand.String())
}

// Write renders one evidence line.
func (f *Formatter) Write(ev Evidence, p Provenance) error {
	f.writeInterval(ev.Left)
	f.writeInterval(ev.Right)
	f.w.WriteUint32(uint32(ev.Count))
	if f.verbose {
		f.w.WriteString(string(ev.Tag))
		f.w.WriteString(p.ReadName)
		f.w.WriteString(p.Strand.String())
		f.w.WriteUint32(uint32(p.Flags))
	}
	return f.w.EndLine()
}

// Flush writes any buffered lines to the underlying writer.
func (f *Formatter) Flush() error {
	return f.w.Flush()
}

// String returns "1" or "-1".
func (s Strand) String() string {
	if s == Reverse {
		return "-1"
	}
	return "1"
}
