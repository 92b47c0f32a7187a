package utils // utils provides token issuance and password hashing helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by ParseAccessToken for any token that cannot
// be trusted: bad signature, wrong signing method, malformed payload or
// expiry. Callers treat all of these the same to avoid leaking which part of
// the token failed.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT together with its absolute expiry. Tokens are
// self-contained and never persisted server-side; the only way to invalidate
// one before expiry is to delete its subject account.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// accessClaims embeds the registered claim set and carries the subject's
// numeric user id.
type accessClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
}

// NewAccessToken builds and signs an HS256 JWT asserting the given user id
// for a fixed window of ttl. The signing secret is process-wide and loaded
// once at startup; rotating it invalidates all outstanding tokens.
func NewAccessToken(secret string, userID uint64, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry and returns the embedded
// user id. Expiry is enforced by the jwt library against the exp claim; no
// clock skew is compensated.
func ParseAccessToken(secret, raw string) (uint64, error) {
	claims := &accessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
