package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/apitemplate/apitemplate/internal/config"
)

var (
	// ErrUnsupportedAlgorithm is returned for a signing algorithm other than HS256, HS384 or HS512.
	ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")
	// ErrEmptySecret is returned when no secret key is configured.
	ErrEmptySecret = errors.New("secret key is empty")
	// ErrEmptySubject is returned when a token is requested for an empty subject.
	ErrEmptySubject = errors.New("token subject is empty")
	// ErrInvalidToken is returned for a token that fails signature, expiry or claim checks.
	ErrInvalidToken = errors.New("invalid token")
)

var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Claims are the claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
}

func signing(cfg *config.Config) (*jwt.SigningMethodHMAC, []byte, error) {
	if cfg == nil {
		return nil, nil, config.ErrNil
	}

	method, ok := signingMethods[cfg.JWT.Algorithm]
	if !ok {
		return nil, nil, pkgerrors.Wrapf(ErrUnsupportedAlgorithm, "%q", cfg.JWT.Algorithm)
	}

	if cfg.App.SecretKey == "" {
		return nil, nil, ErrEmptySecret
	}

	return method, []byte(cfg.App.SecretKey), nil
}

// CreateAccessToken returns a signed token for subject that expires after
// the configured access token lifetime.
func CreateAccessToken(cfg *config.Config, subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	method, key, err := signing(cfg)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.App.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWT.AccessTokenTTL())),
		},
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", pkgerrors.Wrap(err, "sign token")
	}

	return signed, nil
}

// ParseAccessToken verifies token and returns its claims.
func ParseAccessToken(cfg *config.Config, token string) (*Claims, error) {
	method, key, err := signing(cfg)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, pkgerrors.Wrap(ErrInvalidToken, err.Error())
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
