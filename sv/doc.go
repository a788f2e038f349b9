/*Package sv extracts structural-variant breakpoint evidence from long-read
  alignments.

  Each primary alignment record is turned into a set of Segments: the primary
  alignment itself plus one Segment per entry of its SA (supplementary
  alignment) aux tag. Two independent kinds of evidence are derived:

  - Split-read evidence. Segments are ordered by the read offset of their first
    aligned base, and every pair of segments that are adjacent along the read
    is reported as a breakpoint, left/right ordered by genome position.
    Heavily clipped single- and two-segment reads additionally produce
    "large insertion" marker events.

  - Intra-alignment evidence. The primary CIGAR is walked for long insertions
    and deletions, and adjacent deletions that are separated by only a few
    matched bases are iteratively coalesced into one event.

  Evidence is rendered as tab-separated lines consumable by downstream SV
  indexing tools. Extract runs the whole pipeline over a bamprovider.Provider,
  processing batches of reads in parallel while preserving input order.
*/
package sv
