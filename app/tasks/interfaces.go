package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the HTTP API to manage background task
// processing. Provides task queue management and worker pool control.
// Example usage:
//
//	scheduler := NewScheduler(campaignCache, jobRepo, leadService, mapsScraper)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeJobTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
