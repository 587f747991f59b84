// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, using database/sql with the pgx
// driver. Dedup of ingested items is enforced by the database itself via
// the unique content_hash index and ON CONFLICT DO NOTHING inserts.
package postgres
