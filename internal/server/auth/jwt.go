// Package auth issues and verifies signed, time-bounded session tokens
// (HS256 JWTs). Verification is stateless: validity is fully determined by
// the signature and the expiry, never by a server-side lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the account email.
// Subject holds the stable account identifier.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Identity is the verified subject of a token.
type Identity struct {
	AccountID string
	Email     string
}

// GenerateToken signs a token bound to the given account, valid from now
// until now + validityDuration. An empty secret fails with common.ErrSigning;
// the app treats that as fatal at startup, not per-call.
func GenerateToken(accountID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("%w: empty secret key", common.ErrSigning)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSigning, err)
	}

	return tokenString, nil
}

// VerifyToken validates tokenString and returns the identity it is bound to.
//
// Checks short-circuit in order: signature integrity (common.ErrInvalidSignature),
// expiry (common.ErrTokenExpired), then subject well-formedness
// (common.ErrMalformedToken).
func VerifyToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrMalformedToken
		}
	}

	if !token.Valid {
		return nil, common.ErrInvalidSignature
	}

	if claims.Subject == "" {
		return nil, common.ErrMalformedToken
	}

	return &Identity{AccountID: claims.Subject, Email: claims.Email}, nil
}
