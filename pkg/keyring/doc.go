// Package keyring loads the service's RSA signing key pair at startup and
// holds it immutably for the process lifetime. The private key signs access
// tokens; the public key is published for downstream verifiers as raw DER and
// as a JWK. Rotation means restarting with new configuration and a new kid.
//
// Key material is never logged. Startup logging should use Fingerprint, a
// SHA-256 digest of the encoded public key, to confirm which pair is active.
package keyring
