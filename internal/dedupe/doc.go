// Package dedupe finds byte-identical files under a directory tree by
// streaming content hashes through an in-memory index.
//
// The walk is deterministic lexical order, so duplicate pairs always report
// the first-encountered path as the original. Hashing streams fixed-size
// chunks to keep memory flat regardless of file size, and the optional fast
// triage narrows the candidate set by file size and a short prefix hash
// before any cryptographic digest is computed; triage never changes which
// pairs come out or their order. Confirmed duplicates can be left in place,
// deleted, or moved into a quarantine directory, and the first-seen copy of
// any content is never touched.
//
// The index lives only for the duration of a single Find call. Persisting
// outcome summaries is the catalog package's job.
package dedupe
