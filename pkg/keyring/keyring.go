package keyring

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Config is the environment-driven key material configuration. For each key a
// file path and an inline value may both be set; the file wins. Inline values
// are standard base64 of the full PEM document, which keeps multi-line keys
// usable as single-line environment variables.
type Config struct {
	PrivateKeyFile string `env:"JWT_PRIVATE_KEY_FILE"` // PrivateKeyFile is a path to a PKCS#8 PEM file.
	PrivateKeyB64  string `env:"JWT_PRIVATE_KEY_B64"`  // PrivateKeyB64 is base64 of the PKCS#8 PEM document.
	PublicKeyFile  string `env:"JWT_PUBLIC_KEY_FILE"`  // PublicKeyFile is a path to an X.509 (PKIX) PEM file.
	PublicKeyB64   string `env:"JWT_PUBLIC_KEY_B64"`   // PublicKeyB64 is base64 of the X.509 PEM document.
	KeyID          string `env:"JWT_KID" envDefault:"striker-auth-1"`
}

// Keyring holds the loaded RSA pair. It is immutable after Load and safe for
// unsynchronized concurrent reads.
type Keyring struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	keyID      string
}

// Load reads and parses the configured key pair. Any failure here must abort
// process startup: a service that cannot sign or publish keys has nothing to
// offer.
func Load(cfg Config) (*Keyring, error) {
	privPEM, err := readKeySource(cfg.PrivateKeyFile, cfg.PrivateKeyB64)
	if err != nil {
		return nil, errors.Join(ErrNoPrivateKey, err)
	}
	if privPEM == "" {
		return nil, ErrNoPrivateKey
	}

	priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privPEM))
	if err != nil {
		return nil, errors.Join(ErrNoPrivateKey, err)
	}

	pubPEM, err := readKeySource(cfg.PublicKeyFile, cfg.PublicKeyB64)
	if err != nil {
		return nil, errors.Join(ErrNoPublicKey, err)
	}
	if pubPEM == "" {
		return nil, ErrNoPublicKey
	}

	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pubPEM))
	if err != nil {
		return nil, errors.Join(ErrNoPublicKey, err)
	}

	if pub.N.Cmp(priv.N) != 0 || pub.E != priv.E {
		return nil, ErrKeyMismatch
	}

	keyID := cfg.KeyID
	if keyID == "" {
		keyID = "striker-auth-1"
	}

	return &Keyring{
		privateKey: priv,
		publicKey:  pub,
		keyID:      keyID,
	}, nil
}

// readKeySource resolves a key PEM from a file path or an inline base64
// value. The file takes precedence when both are configured.
func readKeySource(file, inlineB64 string) (string, error) {
	if file = strings.TrimSpace(file); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read key file %s: %w", file, err)
		}
		return string(raw), nil
	}

	if inlineB64 = strings.TrimSpace(inlineB64); inlineB64 != "" {
		raw, err := base64.StdEncoding.DecodeString(inlineB64)
		if err != nil {
			return "", fmt.Errorf("decode inline key: %w", err)
		}
		return string(raw), nil
	}

	return "", nil
}

// PrivateKey returns the signing key.
func (k *Keyring) PrivateKey() *rsa.PrivateKey { return k.privateKey }

// PublicKey returns the verification key.
func (k *Keyring) PublicKey() *rsa.PublicKey { return k.publicKey }

// KeyID returns the configured kid embedded in token headers.
func (k *Keyring) KeyID() string { return k.keyID }

// Fingerprint returns the base64 SHA-256 digest of the X.509-encoded public
// key. Safe to log; lets operators confirm the active pair without exposing
// key material.
func (k *Keyring) Fingerprint() string {
	der, err := x509.MarshalPKIXPublicKey(k.publicKey)
	if err != nil {
		// The key was already parsed from this encoding; re-encoding cannot fail.
		return ""
	}
	sum := sha256.Sum256(der)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// PublicKeyBase64 returns the standard base64 of the X.509 (PKIX) DER
// encoding, the format served on /.well-known/public-key.
func (k *Keyring) PublicKeyBase64() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(k.publicKey)
	if err != nil {
		return "", fmt.Errorf("encode public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}
