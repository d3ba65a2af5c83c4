package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/services"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-seeding"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const initialBackoff = 500 * time.Millisecond

// App holds references to config, storage and services.
type App struct {
	Config *config.Config
	DB     *pgxpool.Pool // nil on the in-process store
	Store  store.Store
	Repos  *repositories.Repositories

	LeaseService        services.LeaseService
	NotificationService services.NotificationService
	DashboardService    services.DashboardService
	BillingService      services.BillingService
}

// NewApp connects to Postgres when a database URL is configured and falls
// back to the in-process store otherwise.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		s    store.Store
		pool *pgxpool.Pool
	)
	if cfg.Database.Enabled() {
		dsn := cfg.Database.URL
		if cfg.Database.Isolated() {
			var err error
			dsn, err = utils.WithIsolatedRole(dsn, cfg.Database.IsolatedRunnerID, cfg.Database.IsolatedRunNum)
			if err != nil {
				return nil, err
			}
		}
		if cfg.Database.AutoMigrate {
			if err := store.Migrate(dsn); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			utils.Logger.Info("property-service schema migrations applied")
		}
		var err error
		pool, err = connect(ctx, cfg.Database, dsn)
		if err != nil {
			return nil, err
		}
		s = store.NewPostgresStore(pool)
	} else {
		utils.Logger.Warn("No database configured; using the in-process store")
		mem, err := store.NewMemoryStore()
		if err != nil {
			return nil, err
		}
		s = mem
	}

	a := NewAppWithStore(cfg, s)
	a.DB = pool

	if cfg.Seed.DemoData {
		if err := seeding.SeedDemoPortfolio(ctx, a.Repos); err != nil {
			a.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return a, nil
}

// NewAppWithStore wires repositories and services over an existing store.
func NewAppWithStore(cfg *config.Config, s store.Store, opts ...repositories.Option) *App {
	repos := repositories.New(s, opts...)

	var (
		email services.EmailSender
		sms   services.SMSSender
	)
	if cfg.Notifications.SendgridEnabled() {
		email = services.NewSendgridSender(cfg.Notifications.SendgridAPIKey, config.OrganizationName,
			cfg.Notifications.SendgridFromEmail, cfg.Notifications.SendgridSandbox)
	} else {
		utils.Logger.Warn("SendGrid not configured; email notifications will be recorded as failed")
	}
	if cfg.Notifications.TwilioEnabled() {
		sms = services.NewTwilioSender(cfg.Notifications.TwilioAccountSID, cfg.Notifications.TwilioAuthToken,
			cfg.Notifications.TwilioFromPhone)
	} else {
		utils.Logger.Warn("Twilio not configured; SMS notifications will be recorded as failed")
	}

	notifications := services.NewNotificationService(repos.Notifications, email, sms)
	return &App{
		Config:              cfg,
		Store:               s,
		Repos:               repos,
		NotificationService: notifications,
		LeaseService:        services.NewLeaseService(repos, notifications, email != nil && cfg.Flags.EmailOwnerLeaseNotices, nil),
		DashboardService:    services.NewDashboardService(repos, cfg.HTTP.DashboardCacheTTL, nil),
		BillingService:      services.NewBillingService(repos.Subscriptions),
	}
}

// Ping checks the backing store.
func (a *App) Ping(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Ping(ctx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("property-service DB connection closed.")
	}
}

func connect(ctx context.Context, dbCfg config.Database, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	poolCfg.MinConns = dbCfg.MinConns
	poolCfg.MaxConns = dbCfg.MaxConns
	poolCfg.MaxConnIdleTime = 2 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	retries := max(dbCfg.ConnectRetries, 1)
	backoff := initialBackoff
	for i := 1; ; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
		pool, err := pgxpool.ConnectConfig(attemptCtx, poolCfg)
		cancel()
		if err == nil {
			utils.Logger.Infof("property-service connected to DB on attempt %d", i)
			return pool, nil
		}
		if i == retries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", retries, err)
		}
		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...", i, retries, backoff,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
