// Package tokens mints and verifies RS256 access tokens. Tokens are never
// persisted; downstream services verify them independently against the
// published public key, selecting it by the kid header.
package tokens
