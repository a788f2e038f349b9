/*
excord-lr extracts structural-variant breakpoint evidence from long-read
alignments. Each admitted primary record yields split-read breakpoints from its
SA tag, large-insertion markers for heavily clipped reads, and long
insertions or deletions found in its CIGAR. Output is one tab-separated line
per piece of evidence:

  leftChrom leftStart leftEnd leftStrand rightChrom rightStart rightEnd rightStrand count

With -verbose, the evidence tag, read name, record strand and SAM flag are
appended.

Sample usage:
excord-lr \
    -out evidence.bed.gz \
    -mapq 20 \
    my.bam

The output is compressed with gzip if -out ends in ".gz" and with BGZF if it
ends in ".bgz". Input may be BAM, SAM or gzipped SAM.
*/
package main
