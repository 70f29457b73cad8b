package jobs

import (
	"context"
	"log/slog"
	"time"

	"meddispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AttemptTimeoutJob periodically expires offers that have been pending longer
// than the configured timeout and moves those orders on to the next candidate.
type AttemptTimeoutJob struct {
	handler commands.ExpireStaleAttemptsCommandHandler
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAttemptTimeoutJob creates a job that sweeps stale offers every 30 seconds.
// timeout is how long a candidate gets to answer before the offer is treated
// as rejected.
func NewAttemptTimeoutJob(
	handler commands.ExpireStaleAttemptsCommandHandler,
	timeout time.Duration,
	logger *slog.Logger,
) *AttemptTimeoutJob {
	return &AttemptTimeoutJob{
		handler: handler,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "attempt_timeout_job"),
	}
}

// Start begins the stale offer sweep on a 30 second schedule.
func (j *AttemptTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewExpireStaleAttemptsCommand(j.timeout)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Invalid attempt timeout", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Attempt timeout sweep failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Attempt timeout job started (running every 30 seconds)")
	return nil
}

// Stop stops the sweep.
func (j *AttemptTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Attempt timeout job stopped")
}
