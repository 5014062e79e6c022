// Package grouping buckets collected records into semantic categories
// using an ordered keyword rule table.
//
// Classification is deliberately cheap and fully deterministic: rules
// are data, not branching code, and a record lands in the first
// declared category whose keyword set overlaps its text signal.
// Records matching nothing fall into the terminal catch-all category.
// The declared order is part of the contract: reordering rules changes
// where multi-keyword records land.
package grouping
