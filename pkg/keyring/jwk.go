package keyring

import (
	"encoding/base64"
	"math/big"
)

// JWK is a minimal RSA signing key entry as served in the JWKS document.
type JWK struct {
	KeyType   string `json:"kty"`
	KeyID     string `json:"kid"`
	Use       string `json:"use"`
	Algorithm string `json:"alg"`
	Modulus   string `json:"n"`
	Exponent  string `json:"e"`
}

// JWKS is the document shape served on /.well-known/jwks.json.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK derives the public key's JWK representation. Modulus and exponent are
// base64url without padding; big.Int.Bytes yields the minimal big-endian
// magnitude, so no sign byte ever leaks into the encoding.
func (k *Keyring) JWK() JWK {
	e := big.NewInt(int64(k.publicKey.E))
	return JWK{
		KeyType:   "RSA",
		KeyID:     k.keyID,
		Use:       "sig",
		Algorithm: "RS256",
		Modulus:   base64.RawURLEncoding.EncodeToString(k.publicKey.N.Bytes()),
		Exponent:  base64.RawURLEncoding.EncodeToString(e.Bytes()),
	}
}

// JWKS wraps the single active key in a key-set document.
func (k *Keyring) JWKS() JWKS {
	return JWKS{Keys: []JWK{k.JWK()}}
}
