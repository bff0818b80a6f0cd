// Package textutil provides the small string transforms the archive tooling
// needs when metadata values become filesystem names.
//
// GroupKey turns a raw metadata value into a single safe path segment for
// organizer subfolders, and SanitizeToken produces lowercase slugs for
// identifiers that end up in logs and record tags.
package textutil
