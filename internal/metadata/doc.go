// Package metadata derives point-in-time snapshots of file attributes for the
// archive tooling.
//
// A Snapshot captures name, size, MIME type, and timestamps from a single
// stat call and is never synced with the filesystem afterward. MIME types
// resolve through a curated extension table before falling back to the
// platform registry, and image files can optionally contribute their EXIF
// capture time. Grouping fields used by the organizer are addressed by name
// through ParseField so command flags map directly onto snapshot attributes.
//
// Keep extraction side-effect-free; anything that mutates the tree belongs in
// the organizer or dedupe packages.
package metadata
