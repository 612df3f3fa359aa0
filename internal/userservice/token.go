package userservice

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenAuth signs and verifies the stateless bearer tokens issued at login.
// Tokens are never stored server-side and there is no revocation list; expiry
// is the only lifecycle control.
type TokenAuth struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenAuth(secret string, ttl time.Duration) *TokenAuth {
	return &TokenAuth{secret: []byte(secret), ttl: ttl}
}

// NewToken returns a signed token carrying the user id in the subject claim.
func (a *TokenAuth) NewToken(userID int) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"iat": now.Unix(),
		"exp": now.Add(a.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(a.secret)
}

// VerifyToken checks the signature and expiry of the token and returns the
// user id from the subject claim. Any failure maps to ErrInvalidToken so that
// callers cannot tell a forged token from an expired one.
func (a *TokenAuth) VerifyToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(sub)
	if err != nil || userID < 1 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

// ExtractToken pulls the credential out of an Authorization header value. The
// scheme marker is matched case-insensitively and anything other than a
// bearer credential is rejected. This runs on every request, not just the
// protected ones.
func ExtractToken(headerValue string) (string, bool) {
	const scheme = "bearer "

	if len(headerValue) <= len(scheme) {
		return "", false
	}

	if !strings.EqualFold(headerValue[:len(scheme)], scheme) {
		return "", false
	}

	token := strings.TrimSpace(headerValue[len(scheme):])
	if token == "" {
		return "", false
	}

	return token, true
}
