// Package sessions keeps the login session log: one record per login event,
// closed on logout. The log is append-mostly bookkeeping for operations and
// matchmaking; token validity is independent of it.
package sessions
