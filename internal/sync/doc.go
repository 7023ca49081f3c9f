// Package sync implements playlist reconciliation between upstream sources
// and media server backends.
//
// The core abstraction is Engine, which walks the configured sync mappings:
// fetch the source playlist, normalize it, diff it against the target
// playlist's current state, resolve the missing tracks through catalog
// search, apply the minimal create-or-append mutation, and fan the resolved
// track set out to secondary principals. Operations emit progress updates via
// channels for non-blocking status reporting to the CLI layer.
//
// Every operation is idempotent: re-running a mapping against an unchanged
// source adds nothing and errors nothing. Failures are contained at the
// narrowest useful granularity: a failed track search never aborts its
// siblings, and a failed mapping never aborts the run.
package sync
