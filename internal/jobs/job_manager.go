package jobs

import (
	"fmt"
	"log/slog"

	"loadflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	autoTransitionJob *AutoTransitionJob
	convoySyncJob     *ConvoySyncJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	autoTransitionsHandler commands.RunAutoTransitionsCommandHandler,
	syncConvoysHandler commands.SyncConvoysCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		autoTransitionJob: NewAutoTransitionJob(autoTransitionsHandler, logger),
		convoySyncJob:     NewConvoySyncJob(syncConvoysHandler, logger),
	}
}

// StartAll starts all scheduled jobs. A failed start stops whatever already
// started.
func (jm *JobManager) StartAll() error {
	if err := jm.autoTransitionJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto transition job: %w", err)
	}

	if err := jm.convoySyncJob.Start(); err != nil {
		jm.autoTransitionJob.Stop()
		return fmt.Errorf("failed to start convoy sync job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.convoySyncJob.Stop()
	jm.autoTransitionJob.Stop()
}
