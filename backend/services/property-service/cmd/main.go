package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/poofware/mono-repo/backend/services/property-service/internal/app"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/routes"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepTimeout    = 5 * time.Minute
)

func main() {
	utils.InitLogger(config.AppName)

	// 1) Config
	cfg, err := config.Load()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2) Core application (store, repositories, services)
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	// 3) Scheduled jobs
	scheduler := cron.New(cron.WithLocation(time.UTC))
	if _, err := scheduler.AddFunc(cfg.Jobs.LeaseExpiryCronSpec, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		if _, err := application.LeaseService.ExpireDueLeases(sweepCtx); err != nil {
			utils.Logger.WithError(err).Error("Lease expiry sweep failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatalf("Invalid lease expiry schedule %q", cfg.Jobs.LeaseExpiryCronSpec)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// 4) Router + CORS
	router := routes.NewRouter(application)
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Logger.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	utils.Logger.Infof("Starting %s on %s", cfg.AppName, cfg.HTTP.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Logger.WithError(err).Error("Server error")
	}
	utils.Logger.Infof("%s stopped", cfg.AppName)
}
