// Package organizer moves files into metadata-derived group folders beneath
// the tree root.
//
// It snapshots the file list before touching anything so its own moves never
// perturb the traversal, derives each file's group key from a chosen metadata
// field, and relocates the file with collision-safe naming. Files already
// sitting in their correct group folder are left alone, which makes a second
// run over the same tree a no-op. Per-file failures are recorded and reported
// alongside the successful moves; they never halt the batch.
//
// Extend grouping behaviour through metadata fields rather than ad hoc path
// rules here.
package organizer
