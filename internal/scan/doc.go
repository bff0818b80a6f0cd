// Package scan walks archive trees and classifies the failures that fall out
// of filesystem traversal.
//
// Walks are deterministic: entries reach the visit callback in lexical path
// order, only regular files are visited, and per-file read failures are
// recorded as skips instead of aborting the batch. Structural problems with
// the root abort immediately. The sentinel errors defined here are shared by
// every package that touches the tree so command code can sort outcomes with
// errors.Is.
//
// Route new traversal policies through Options rather than ad hoc walkers.
package scan
