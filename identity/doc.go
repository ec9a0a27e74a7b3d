// Package identity reconciles validated provider identity assertions against
// durable user accounts. It finds or creates the account behind a
// (provider, subject id) pair, allocates usernames on first contact and
// enforces the one-email-one-account rule: an email already registered under
// a different provider is a hard conflict, never a silent merge.
//
// Provider token verification happens upstream; this package only ever sees
// assertions that already passed it.
package identity
