// Package store provides durable archival of completed runs in SQLite.
//
// Only the raw facts of a run are persisted: its token, start time,
// configured success-rate threshold, the requirement catalog it was
// executed against, and the per-module results in execution order.
// Everything derivable (coverage map, gaps, recommendations, traceability
// matrix, summary) is recomputed when a run is read back, so re-exporting
// an archived run always applies the current derivation rules.
package store
