package testhelpers

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/stretchr/testify/require"
)

// CreateJWT signs a short-lived RS256 access token for ownerID.
func (h *TestHelper) CreateJWT(ownerID uuid.UUID, role models.UserRole) string {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"iss":  h.Issuer,
		"sub":  ownerID.String(),
		"iat":  now,
		"exp":  now + 15*60,
		"role": string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign test JWT")
	return signed
}

// CreateExpiredJWT signs a token whose exp is already in the past.
func (h *TestHelper) CreateExpiredJWT(ownerID uuid.UUID) string {
	past := time.Now().Add(-time.Hour).Unix()
	claims := jwt.MapClaims{
		"iss": h.Issuer,
		"sub": ownerID.String(),
		"iat": past - 60,
		"exp": past,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign expired test JWT")
	return signed
}

// PublicKeyBase64 is the verification key in the base64 PEM form the
// service config expects.
func (h *TestHelper) PublicKeyBase64() string {
	der, err := x509.MarshalPKIXPublicKey(h.PublicKey())
	require.NoError(h.T, err, "Failed to marshal public key")
	return base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}
