// Package ingest implements the scheduled ingestion engine: a rate-limited,
// single-flight loop that fetches the configured feed sources, deduplicates
// the results by content hash, and upserts new items into the store. One
// failing source never aborts a cycle, and a cycle that would overlap a
// running one is dropped rather than queued.
package ingest
