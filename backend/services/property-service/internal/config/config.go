package config

import (
	"crypto/rsa"
	"encoding/base64"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/poofware/mono-repo/backend/shared/go-middleware"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const (
	OrganizationName = utils.OrganizationName
	EnvPrefix        = "PROPERTY_"
)

// AppName can be overridden with -ldflags.
var AppName = "property-service"

type Config struct {
	AppName       string
	HTTP          HTTP          `envPrefix:"HTTP_"`
	Database      Database      `envPrefix:"DATABASE_"`
	Auth          Auth          `envPrefix:"AUTH_"`
	Notifications Notifications `envPrefix:"NOTIFICATIONS_"`
	Jobs          Jobs          `envPrefix:"JOBS_"`
	Seed          Seed          `envPrefix:"SEED_"`
	Billing       Billing       `envPrefix:"BILLING_"`
	Flags         Flags         `envPrefix:"FLAGS_"`

	rsaPublicKey *rsa.PublicKey
}

type HTTP struct {
	Address        string   `env:"ADDRESS,expand" envDefault:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:*"`
	// DashboardCacheTTL of zero disables dashboard memoization.
	DashboardCacheTTL time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"0s"`
}

type Auth struct {
	// PublicKeyBase64 is the base64 encoded PEM of the RS256 key that signs
	// access tokens.
	PublicKeyBase64 string `env:"PUBLIC_KEY_BASE64"`
	Issuer          string `env:"ISSUER" envDefault:"Keystone"`
}

type Jobs struct {
	LeaseExpiryCronSpec string `env:"LEASE_EXPIRY_CRON" envDefault:"0 5 * * *"`
}

type Billing struct {
	// StripeWebhookSecret enables the Stripe subscription webhook.
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

type Seed struct {
	DemoData bool `env:"DEMO_DATA" envDefault:"false"`
}

// Load parses the environment once. The returned Config is not mutated
// afterwards.
func Load() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.AppName = AppName

	if cfg.Auth.PublicKeyBase64 == "" {
		return nil, errors.New(EnvPrefix + "AUTH_PUBLIC_KEY_BASE64 is required")
	}
	pub, err := parsePublicKey(cfg.Auth.PublicKeyBase64)
	if err != nil {
		return nil, err
	}
	cfg.rsaPublicKey = pub
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = middleware.DefaultTokenIssuer
	}
	if err := cfg.loadFlags(); err != nil {
		return nil, err
	}

	utils.Logger.WithFields(logrus.Fields{
		"http_address": cfg.HTTP.Address,
		"database":     utils.RedactDBURL(cfg.Database.URL),
		"sendgrid":     cfg.Notifications.SendgridEnabled(),
		"twilio":       cfg.Notifications.TwilioEnabled(),
		"lease_cron":   cfg.Jobs.LeaseExpiryCronSpec,
		"seed_demo":    cfg.Seed.DemoData,
		"flags":        cfg.Flags.SDKKey != "",
		"stripe":       cfg.Billing.StripeWebhookSecret != "",
	}).Infof("Loaded config for %s", cfg.AppName)
	return &cfg, nil
}

func (c *Config) RSAPublicKey() *rsa.PublicKey { return c.rsaPublicKey }

func parsePublicKey(b64 string) (*rsa.PublicKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, errors.Wrap(err, "decode auth public key")
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, errors.Wrap(err, "parse auth public key")
	}
	return pub, nil
}
