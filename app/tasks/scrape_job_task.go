package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/scraper"
	"github.com/amerello/lead-radar/app/service"
)

type ScrapeJobTask struct {
	Task
	JobID       string
	Keyword     string
	City        string
	Limit       int
	AutoAnalyze bool
	mapsScraper scraper.Scraper
	jobRepo     database.JobRepository
	leadService *service.LeadService
	scheduler   TaskSchedulerInterface
}

func NewScrapeJobTask(jobID, keyword, city string, limit int, autoAnalyze bool, mapsScraper scraper.Scraper, jobRepo database.JobRepository, leadService *service.LeadService, scheduler TaskSchedulerInterface) *ScrapeJobTask {
	return &ScrapeJobTask{
		Task:        NewTask(TaskTypeScrapeJob, fmt.Sprintf("%s/%s", city, keyword)),
		JobID:       jobID,
		Keyword:     keyword,
		City:        city,
		Limit:       limit,
		AutoAnalyze: autoAnalyze,
		mapsScraper: mapsScraper,
		jobRepo:     jobRepo,
		leadService: leadService,
		scheduler:   scheduler,
	}
}

// Execute runs one discovery search and stores new leads. Job state is
// owned here: a search failure marks the job failed and is not retried,
// a failed job is restarted as a new job instead.
func (t *ScrapeJobTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.jobRepo.MarkJobRunning(ctx, t.JobID); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	results, err := t.mapsScraper.Search(ctx, t.Keyword, t.City, t.Limit)
	if err != nil {
		slog.Error("Task failed", "type", "ScrapeJob", "job_id", t.JobID, "subject", t.Subject, "error", err)
		if markErr := t.jobRepo.MarkJobFailed(ctx, t.JobID, err.Error()); markErr != nil {
			slog.Error("Failed to mark job failed", "job_id", t.JobID, "error", markErr)
		}
		return nil
	}

	newCount := 0
	duplicateCount := 0
	for _, result := range results {
		leadID, created, err := t.leadService.CreateFromDiscovery(ctx, database.NewLead{
			Name:         result.Name,
			Address:      result.Address,
			City:         result.City,
			Province:     result.Province,
			Phone:        result.Phone,
			Website:      result.Website,
			GmbURL:       result.GmbURL,
			PlaceID:      result.PlaceID,
			Rating:       result.Rating,
			ReviewsCount: result.ReviewsCount,
			PhotosCount:  result.PhotosCount,
		})
		if err != nil {
			slog.Warn("Failed to store discovered lead", "job_id", t.JobID, "name", result.Name, "error", err)
			continue
		}

		if !created {
			duplicateCount++
			continue
		}
		newCount++

		if t.AutoAnalyze && result.Website != nil {
			analyzeTask := NewAnalyzeLeadTask(leadID, t.leadService)
			if err := t.scheduler.EnqueueTask(analyzeTask); err != nil {
				slog.Warn("Failed to enqueue AnalyzeLeadTask", "lead_id", leadID, "error", err)
			}
		}
	}

	if err := t.jobRepo.MarkJobCompleted(ctx, t.JobID, newCount); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	slog.Info("Task completed",
		"type", "ScrapeJob",
		"job_id", t.JobID,
		"subject", t.Subject,
		"duration", t.GetDuration(),
		"total", len(results),
		"duplicates", duplicateCount,
		"new", newCount)

	return nil
}
