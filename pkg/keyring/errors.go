package keyring

import "errors"

var (
	// ErrNoPrivateKey indicates that no private key source was configured or
	// the configured source yielded nothing parseable.
	ErrNoPrivateKey = errors.New("no usable private key configured")
	// ErrNoPublicKey indicates that no public key source was configured or
	// the configured source yielded nothing parseable.
	ErrNoPublicKey = errors.New("no usable public key configured")
	// ErrKeyMismatch indicates the configured public key does not belong to
	// the configured private key.
	ErrKeyMismatch = errors.New("public key does not match private key")
)
