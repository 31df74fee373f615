// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clubcourt/reserve/internal/api"
	"github.com/clubcourt/reserve/internal/booking"
	"github.com/clubcourt/reserve/internal/config"
	"github.com/clubcourt/reserve/internal/db"
	"github.com/clubcourt/reserve/internal/email"
	"github.com/clubcourt/reserve/internal/ratelimit"
	"github.com/clubcourt/reserve/internal/scheduler"
)

type app struct {
	database *db.DB
	limiter  *ratelimit.Limiter
	jobs     *scheduler.Service
	server   *http.Server
}

func newApp(cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	bookings, err := booking.NewService(database, booking.Policy{AutoConfirm: cfg.Booking.AutoConfirm})
	if err != nil {
		return nil, err
	}

	var notifier *email.Notifier
	if cfg.Email.Enabled {
		sesClient, err := email.NewSESClient(cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			return nil, fmt.Errorf("init ses client: %w", err)
		}
		notifier = email.NewNotifier(sesClient)
	}

	jobs, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	if err := jobs.RegisterCompletionJob(database); err != nil {
		return nil, err
	}
	if err := jobs.RegisterReminderJob(database, notifier); err != nil {
		return nil, err
	}
	jobs.Start()

	limiter := ratelimit.New(nil)
	handlers := api.NewHandlers(database, bookings, notifier)
	handler := api.ChainMiddleware(
		api.NewRouter(handlers),
		api.WithRateLimit(limiter, false),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &app{
		database: database,
		limiter:  limiter,
		jobs:     jobs,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.App.Port),
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  2 * time.Minute,
		},
	}, nil
}

func (a *app) Close() {
	if a.jobs != nil {
		if err := a.jobs.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
}
