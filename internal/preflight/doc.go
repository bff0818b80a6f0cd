// Package preflight provides readiness checks for the filesystem paths
// curator depends on.
//
// The CLI "curator doctor" command runs RunAll to display environment health
// before users point destructive operations (dupes --delete, organize) at a
// tree. Each check returns a Result instead of an error so every problem is
// reported in one pass.
package preflight
