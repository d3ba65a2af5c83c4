package config

import (
	"time"

	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/pkg/errors"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const (
	LDConnectionTimeout = 5 * time.Second
	LDServerContextKey  = "server"
	LDServerContextKind = "user"
)

// Flags holds runtime switches. When SDKKey is set they are read from
// LaunchDarkly at startup, with the environment values as defaults.
type Flags struct {
	SDKKey                 string `env:"SDK_KEY"`
	EmailOwnerLeaseNotices bool   `env:"EMAIL_OWNER_LEASE_NOTICES" envDefault:"true"`
}

// flagSource is the part of the LaunchDarkly client used here.
type flagSource interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
}

func (c *Config) loadFlags() error {
	if c.Flags.SDKKey == "" {
		return nil
	}
	client, err := ld.MakeClient(c.Flags.SDKKey, LDConnectionTimeout)
	if err != nil {
		return errors.Wrap(err, "create LaunchDarkly client")
	}
	defer client.Close()
	return c.applyFlags(client)
}

func (c *Config) applyFlags(src flagSource) error {
	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	bools := []struct {
		key string
		dst *bool
	}{
		{"seed_db_with_test_data", &c.Seed.DemoData},
		{"sendgrid_sandbox_mode", &c.Notifications.SendgridSandbox},
		{"email_owner_lease_notices", &c.Flags.EmailOwnerLeaseNotices},
	}
	for _, f := range bools {
		v, err := src.BoolVariation(f.key, ctx, *f.dst)
		if err != nil {
			return errors.Wrapf(err, "retrieve %s flag", f.key)
		}
		utils.Logger.Debugf("%s flag: %t", f.key, v)
		*f.dst = v
	}
	return nil
}
