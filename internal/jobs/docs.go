// Package jobs provides the scheduled background sweeps, built on
// github.com/robfig/cron/v3.
//
// Two jobs run:
//
//  1. AutoTransitionJob fires timeout transitions (posting expiry, award
//     lapses, auto invoicing, auto completion) from the persisted
//     state-entry timestamps. Level triggered: a sweep missed during
//     downtime is caught up by the next run.
//  2. ConvoySyncJob reconciles convoys with their loads: cargo-exception
//     holds, hold releases and sync-point advancement.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(autoTransitionsHandler, syncConvoysHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Both sweeps are idempotent, so overlapping or repeated runs are safe; the
// aggregate version checks resolve any race with user actions.
package jobs
