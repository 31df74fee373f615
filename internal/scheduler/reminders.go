package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/clubcourt/reserve/internal/db"
	"github.com/clubcourt/reserve/internal/email"
)

const (
	reminderHoursBefore = 24
	reminderJobWindow   = 15 * time.Minute
)

// RegisterReminderJob registers the task that emails members about
// reservations starting roughly a day out.
func (s *Service) RegisterReminderJob(database *db.DB, notifier *email.Notifier) error {
	if database == nil {
		return fmt.Errorf("reminder job requires a database")
	}

	jobName := "reservation_reminders"
	cronExpr := "*/15 * * * *"
	jobLogger := log.With().
		Str("component", "reservation_reminders_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := s.AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if notifier == nil {
			jobLogger.Debug().Msg("Reminder job skipped: notifier not configured")
			return
		}

		windowStart := time.Now().UTC().Add(reminderHoursBefore * time.Hour)
		windowEnd := windowStart.Add(reminderJobWindow)

		upcoming, err := database.Store.ListConfirmedStartingBetween(ctx, windowStart, windowEnd)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load reservations for reminder job")
			return
		}

		for _, detail := range upcoming {
			notifier.SendReminder(ctx, detail, &jobLogger)
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add reservation reminder job: %w", err)
	}

	jobLogger.Info().Msg("Reservation reminder job registered")
	return nil
}
