package middleware

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenIssuer identifies the service that issues access tokens.
const DefaultTokenIssuer = "Keystone"

// Claims is what a validated access token tells us about the caller.
type Claims struct {
	OwnerID uuid.UUID
	Role    string
}

// ValidateToken checks the token's RS256 signature, expiry, issuer and
// subject. Any deviation returns a descriptive error; an expired token
// yields jwt.ErrTokenExpired.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey, issuer string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	// ─── Standard claim checks ────────────────────────────────────────────────────
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != issuer {
		return nil, errors.New("invalid token issuer")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing subject")
	}
	ownerID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("subject is not a valid id")
	}

	role, _ := claims["role"].(string)
	return &Claims{OwnerID: ownerID, Role: role}, nil
}
