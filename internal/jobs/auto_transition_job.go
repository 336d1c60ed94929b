package jobs

import (
	"context"
	"log/slog"

	"loadflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AutoTransitionJob runs the timeout sweep every thirty seconds. Timeouts
// are measured in hours, so a sub-minute sweep keeps fire latency negligible
// without loading the database.
type AutoTransitionJob struct {
	handler commands.RunAutoTransitionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAutoTransitionJob creates the scheduled timeout sweep.
func NewAutoTransitionJob(handler commands.RunAutoTransitionsCommandHandler, logger *slog.Logger) *AutoTransitionJob {
	return &AutoTransitionJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "auto_transition_job"),
	}
}

// Start begins the sweep on its schedule.
func (j *AutoTransitionJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRunAutoTransitionsCommand()

		if _, err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Auto transition sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto transition job started (running every 30s)")
	return nil
}

// Stop stops the sweep.
func (j *AutoTransitionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auto transition job stopped")
}
