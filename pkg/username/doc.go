// Package username derives unique human-readable usernames from profile
// signals. The existence probe is an optimization only; the database unique
// index is the final authority under concurrent signups, and callers retry
// allocation when the store reports a duplicate.
package username
