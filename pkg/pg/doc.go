// Package pg manages the PostgreSQL connection pool, schema migrations and
// shared error classification. The unique indexes created by the migrations
// are the final authority for email, username and provider-link uniqueness;
// IsDuplicateKeyError is how the storage layer recognizes a lost race.
package pg
