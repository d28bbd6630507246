// Package jobs provides scheduled background tasks for the fulfillment system.
//
// Jobs are cron-based (github.com/robfig/cron/v3 with a leading seconds
// field) and are managed through JobManager:
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Add("admin digest", jobs.NewAdminDigestJob(schedule, statsHandler, dispatcher, telegram.StatsText, logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// AdminDigestJob sends the /stats summary to every ADMIN account over the
// admin channel, by default every day at 09:00 ("0 0 9 * * *").
//
// # Error Handling
//
// A job run never stops the scheduler: failures are logged and the next
// tick runs as usual. A failed start stops the jobs already started.
package jobs
