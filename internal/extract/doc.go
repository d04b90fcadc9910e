// Package extract turns release asset bytes into the bytes of the
// binary of interest. The archive type of a file rule selects one of a
// closed set of strategies: zip containers are opened in memory, all
// other types pass the asset through unchanged. No temporary files are
// written.
package extract
