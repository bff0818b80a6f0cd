// Package archive models the ownership layer above raw files: records,
// collections of records, and the users who own collections.
//
// Record and Collection both satisfy Item, which is the small capability
// surface (a description plus a size) that reporting code consumes without
// caring which variant it holds. Records snapshot file metadata at
// construction and keep it immutable afterward; collections and users are
// plain in-memory composites with no persistence of their own. Activity is
// surfaced through an injected event sink rather than printing.
package archive
