package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/clubcourt/reserve/internal/db"
)

const completionJobTimeout = time.Minute

// RegisterCompletionJob registers the sweeper that moves confirmed
// reservations whose end time has passed to COMPLETED.
func (s *Service) RegisterCompletionJob(database *db.DB) error {
	if database == nil {
		return fmt.Errorf("completion job requires a database")
	}

	jobName := "reservation_completion"
	cronExpr := "*/10 * * * *"
	jobLogger := log.With().
		Str("component", "reservation_completion_job").
		Str("job_name", jobName).
		Logger()

	_, err := s.AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), completionJobTimeout)
		defer cancel()

		completed, err := database.Store.CompleteExpiredReservations(ctx, time.Now().UTC())
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to complete expired reservations")
			return
		}
		if completed > 0 {
			jobLogger.Info().Int64("completed", completed).Msg("Marked expired reservations completed")
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add reservation completion job: %w", err)
	}

	jobLogger.Info().Msg("Reservation completion job registered")
	return nil
}
