/*Package interval implements interval-union operations for restricting work to
  a set of genomic regions, given either as a region string or a BED file.
  (Note the 'union'.  Overlapping intervals are merged, not tracked
  separately.)
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
