package jobs

import (
	"context"
	"log/slog"

	"loadflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ConvoySyncJob runs the escort coordination sweep every ten seconds, so
// holds forced by cargo exceptions reach convoys quickly.
type ConvoySyncJob struct {
	handler commands.SyncConvoysCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewConvoySyncJob creates the scheduled convoy sweep.
func NewConvoySyncJob(handler commands.SyncConvoysCommandHandler, logger *slog.Logger) *ConvoySyncJob {
	return &ConvoySyncJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "convoy_sync_job"),
	}
}

// Start begins the sweep on its schedule.
func (j *ConvoySyncJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewSyncConvoysCommand()

		if _, err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Convoy sync sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Convoy sync job started (running every 10s)")
	return nil
}

// Stop stops the sweep.
func (j *ConvoySyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Convoy sync job stopped")
}
