// Package feed fetches and parses external syndication sources into
// normalized raw items. The fetcher is stateless and side-effect-free
// beyond the network call itself: it never writes to the store, and it
// reports failures through a typed FetchError so the ingestion engine can
// decide what is retryable.
package feed
