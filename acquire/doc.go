// Package acquire coordinates collection across a fixed set of source
// adapters.
//
// The coordinator fans one request out to every registered adapter on a
// worker pool and always settles every branch: a source that fails,
// panics, or times out is reported as degraded with synthesized
// placeholder records, and never disturbs its siblings. Callers get one
// FetchResult per source regardless of outcome.
package acquire
