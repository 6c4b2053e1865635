// Package preflight provides readiness checks for the filesystem paths a
// packing run depends on.
//
// The CLI runs every check before opening the output so a run with an
// unreadable list, a missing image root or an unwritable output directory
// fails with one clear report instead of a partial container. Each check
// returns a Result; none of them modify the filesystem.
package preflight
