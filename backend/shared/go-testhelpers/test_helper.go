package testhelpers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/poofware/mono-repo/backend/shared/go-middleware"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/stretchr/testify/require"
)

// TestHelper bundles an in-process store, repositories over it, a
// controllable clock and a signing key whose public half the auth
// middleware under test should trust.
type TestHelper struct {
	T          *testing.T
	Ctx        context.Context
	Store      *store.MemoryStore
	Repos      *repositories.Repositories
	Clock      *Clock
	PrivateKey *rsa.PrivateKey
	Issuer     string
}

func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	s, err := store.NewMemoryStore()
	require.NoError(t, err, "Failed to create memory store")

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate RSA key")

	clock := NewClock(DefaultNow)
	return &TestHelper{
		T:          t,
		Ctx:        context.Background(),
		Store:      s,
		Repos:      repositories.New(s, repositories.WithClock(clock.Now)),
		Clock:      clock,
		PrivateKey: key,
		Issuer:     middleware.DefaultTokenIssuer,
	}
}

func (h *TestHelper) PublicKey() *rsa.PublicKey {
	return &h.PrivateKey.PublicKey
}
