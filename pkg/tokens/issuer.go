package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/strikerhq/striker-auth/pkg/keyring"
)

// Config is the environment-driven token configuration. Expiry is configured
// in milliseconds to match the verification services already deployed against
// this issuer; the default is five hours.
type Config struct {
	Issuer   string `env:"JWT_ISSUER" envDefault:"striker-auth"`
	Audience string `env:"JWT_AUDIENCE"`
	ExpiryMS int64  `env:"JWT_EXPIRY_MS" envDefault:"18000000"`
}

// TTL returns the configured expiry as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.ExpiryMS) * time.Millisecond
}

// Claims is the access token payload: registered claims plus the identity
// metadata downstream services key off.
type Claims struct {
	Provider string `json:"provider,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	IsGuest  bool   `json:"isGuest,omitempty"`
	jwt.RegisteredClaims
}

// Meta carries the custom claims for a single login event.
type Meta struct {
	Provider string
	Email    string
	Username string
	IsGuest  bool
}

// Issuer mints RS256 tokens with a fixed issuer, audience and TTL.
type Issuer struct {
	keys     *keyring.Keyring
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source. Used by tests to mint tokens at a
// chosen instant.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// New constructs an Issuer. A nil keyring is a configuration error and must
// abort startup.
func New(keys *keyring.Keyring, cfg Config, opts ...Option) (*Issuer, error) {
	if keys == nil {
		return nil, ErrNoSigningKey
	}

	i := &Issuer{
		keys:     keys,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a token for the given user. Subject is the user id in string
// form; exp is iat plus the configured TTL; the header carries the active
// kid so verifiers can pick the right key during rotation.
func (i *Issuer) Issue(userID uuid.UUID, meta Meta) (string, error) {
	now := i.now()

	claims := Claims{
		Provider: meta.Provider,
		Email:    meta.Email,
		Username: meta.Username,
		IsGuest:  meta.IsGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = i.keys.KeyID()

	signed, err := token.SignedString(i.keys.PrivateKey())
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return signed, nil
}

// Verify parses a token against the issuer's public key, accepting only
// RS256. Mainly used by tests and as a reference for downstream verifiers.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.keys.PublicKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
