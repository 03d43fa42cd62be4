// Package pnmfile reads and writes netpbm files on disk.
//
// Every call opens the file, reads or writes it completely and closes it
// before returning, on success and on failure alike. Nothing holds a file
// handle between calls.
//
// # Compression
//
// Files may be stored compressed. On read the compressor is detected from the
// leading bytes, so a gzip or zstd stream is accepted whatever the file is
// called:
//
//	img, err := pnmfile.Load("scan.pgm.zst")
//
// On write the compressor is chosen from the file name: a ".gz" suffix writes
// gzip and ".zst" writes zstd. Anything else is written uncompressed.
package pnmfile
