// Package bamprovider provides utilities for scanning a BAM or SAM file
// sequentially.
//
// The Provider is an interface for reading the header and records of an
// alignment file. The file type is detected from the path; SAM files may be
// gzipped. CRAM is recognized but not supported.
package bamprovider
