// Package dataprocessing implements the claims transformation pipeline: date
// normalization, status classification with TAT bucketing, status-based
// partitioning, pivot aggregation, KPI summarization, and the dashboard
// filter engine.
//
// Every function in this package is total for well-formed record slices:
// per-field parse anomalies (bad dates, non-numeric amounts) degrade to
// sentinels ("Uncategorized", unknown TAT, zero contribution) and are never
// surfaced as errors. Only file decoding, which lives in the ingest package,
// can fail.
//
// The fixed date-format priority list in dates.go resolves ambiguous inputs
// such as "01/02/2024" by order (MM/dd wins), not by locale detection. This
// mirrors the upstream export's behavior and is pinned by tests; do not
// "fix" it.
package dataprocessing
