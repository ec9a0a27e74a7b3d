package tokens

import "errors"

var (
	// ErrNoSigningKey indicates the issuer was constructed without key
	// material. This is a startup defect, not a per-request condition.
	ErrNoSigningKey = errors.New("no signing key configured")
	// ErrSigningFailed indicates token minting failed with loaded keys.
	ErrSigningFailed = errors.New("failed to sign token")
	// ErrInvalidToken indicates the token is malformed or the signature does
	// not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token's exp claim has passed.
	ErrExpiredToken = errors.New("token expired")
)
