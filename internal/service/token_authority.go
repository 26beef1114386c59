package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"quote_server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultIssuer   = "quote-server.example.com"
	DefaultTokenTTL = 24 * time.Hour
)

// signingMethod is the only algorithm minted or accepted.
var signingMethod = jwt.SigningMethodHS512

// Claims are the verified contents of a credential.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthConfig holds the process-wide secrets. They are read-only after
// construction, so a TokenAuthority is safe for concurrent use.
type AuthConfig struct {
	SigningSecret      []byte
	RegistrationSecret string
	Issuer             string
	TokenTTL           time.Duration
}

// TokenAuthority issues and verifies HS512 bearer credentials. It is
// stateless: nothing is persisted and tokens only die by expiry.
type TokenAuthority struct {
	key       []byte
	regSecret []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenAuthority(cfg AuthConfig) (*TokenAuthority, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errors.New("token signing secret is empty")
	}
	if cfg.RegistrationSecret == "" {
		return nil, errors.New("registration secret is empty")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(cfg.SigningSecret))
	copy(key, cfg.SigningSecret)
	return &TokenAuthority{
		key:       key,
		regSecret: []byte(cfg.RegistrationSecret),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// Issue checks the registration password against the shared secret and
// mints a credential for "full_name <email>".
func (a *TokenAuthority) Issue(reg models.Registration) (string, error) {
	if subtle.ConstantTimeCompare([]byte(reg.Password), a.regSecret) != 1 {
		return "", ErrInvalidKey
	}

	now := a.now()
	token := jwt.NewWithClaims(signingMethod, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   reg.Subject(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature, algorithm and expiry. Every failure is
// reported as ErrInvalidToken.
func (a *TokenAuthority) Verify(accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	token, err := parser.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
