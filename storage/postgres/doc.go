// Package postgres implements the identity and session storage interfaces on
// a pgx connection pool. Unique index violations are translated into the
// domain conflict errors by constraint name, making the database the final
// arbiter for every uniqueness rule the service relies on.
package postgres
