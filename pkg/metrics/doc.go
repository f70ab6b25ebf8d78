// Package metrics holds the normalized read model and the statistics engine.
//
// A Collection owns its reads and a Summary computed when the collection is
// built. Filtering and combining always build a new Collection, so a Summary
// never drifts from the reads it describes. Summaries of partial collections
// are never merged arithmetically; quantiles require the full population.
package metrics
