package security

import (
	"github.com/alexedwards/argon2id"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// HashPassword hashes a plaintext password with argon2id default parameters.
func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", pkgerrors.Wrap(err, "hash password")
	}

	return hash, nil
}

// VerifyPassword reports whether password matches the argon2id hash.
// A malformed hash never matches.
func VerifyPassword(password, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify password")
		return false
	}

	return match
}
