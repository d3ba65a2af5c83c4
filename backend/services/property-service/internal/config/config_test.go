package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicKeyEnv(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, base64.StdEncoding.EncodeToString(pemBytes)
}

func TestLoad_Defaults(t *testing.T) {
	key, b64 := publicKeyEnv(t)
	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", b64)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "Keystone", cfg.Auth.Issuer)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "0 5 * * *", cfg.Jobs.LeaseExpiryCronSpec)
	assert.False(t, cfg.Notifications.SendgridEnabled())
	assert.True(t, key.PublicKey.Equal(cfg.RSAPublicKey()))
}

func TestLoad_Overrides(t *testing.T) {
	_, b64 := publicKeyEnv(t)
	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", b64)
	t.Setenv("PROPERTY_HTTP_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("PROPERTY_DATABASE_URL", "postgres://u:p@localhost:5432/props")
	t.Setenv("PROPERTY_DATABASE_MAX_CONNS", "25")
	t.Setenv("PROPERTY_NOTIFICATIONS_TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("PROPERTY_NOTIFICATIONS_TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("PROPERTY_NOTIFICATIONS_TWILIO_FROM_PHONE", "+15550001111")
	t.Setenv("PROPERTY_SEED_DEMO_DATA", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.True(t, cfg.Notifications.TwilioEnabled())
	assert.True(t, cfg.Seed.DemoData)
}

func TestLoad_RequiresPublicKey(t *testing.T) {
	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", "")
	_, err := Load()
	assert.ErrorContains(t, err, "AUTH_PUBLIC_KEY_BASE64")

	t.Setenv("PROPERTY_AUTH_PUBLIC_KEY_BASE64", base64.StdEncoding.EncodeToString([]byte("not pem")))
	_, err = Load()
	assert.ErrorContains(t, err, "parse auth public key")
}

type fakeFlags map[string]bool

func (f fakeFlags) BoolVariation(key string, _ ldcontext.Context, def bool) (bool, error) {
	if v, ok := f[key]; ok {
		return v, nil
	}
	return def, nil
}

func TestApplyFlags(t *testing.T) {
	cfg := &Config{Flags: Flags{EmailOwnerLeaseNotices: true}}
	require.NoError(t, cfg.applyFlags(fakeFlags{
		"seed_db_with_test_data":    true,
		"email_owner_lease_notices": false,
	}))
	assert.True(t, cfg.Seed.DemoData)
	assert.False(t, cfg.Flags.EmailOwnerLeaseNotices)
	assert.False(t, cfg.Notifications.SendgridSandbox)
}

func TestApplyFlags_OfflineClientKeepsDefaults(t *testing.T) {
	client, err := ld.MakeCustomClient("sdk-offline", ld.Config{Offline: true}, 0)
	require.NoError(t, err)
	defer client.Close()

	cfg := &Config{Flags: Flags{EmailOwnerLeaseNotices: true}, Seed: Seed{DemoData: true}}
	require.NoError(t, cfg.applyFlags(client))
	assert.True(t, cfg.Seed.DemoData)
	assert.True(t, cfg.Flags.EmailOwnerLeaseNotices)
}
