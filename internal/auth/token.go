package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studyhive/studyhive/internal/db/models"
)

// Tokens issues and verifies the opaque bearer credentials the rest of the
// service consumes. The only claim the coordinators care about is the stable
// user id carried in the subject.
type Tokens struct {
	secret []byte
	expiry time.Duration
}

// NewTokens creates a token service signing with the given secret.
func NewTokens(secret string, expiry time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue signs a bearer token for the user.
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(user.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return signed, nil
}

// Verify checks a bearer token and returns the stable user id it carries.
// Any parse, signature or expiry failure collapses to ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (uint64, error) {
	claims := new(jwt.RegisteredClaims)

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
