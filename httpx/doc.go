// Package httpx is the service's JSON response envelope and the single place
// where domain errors become HTTP status codes. Internal errors are reported
// with a generic message; details stay in the logs.
package httpx
