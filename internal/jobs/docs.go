// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AttemptTimeoutJob - Runs every 30 seconds to expire offers whose
// candidate never answered and hand those orders to the next candidate in
// the queue.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireHandler, attemptTimeout, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The sweep command itself skips orders lost to concurrent responses, so any
// error surfacing here indicates a system issue and is logged.
package jobs
