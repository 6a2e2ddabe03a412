package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amerello/lead-radar/app/cfg"
	"github.com/amerello/lead-radar/app/config"
	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/scraper"
	"github.com/amerello/lead-radar/app/service"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	campaignCache *config.CampaignCache
	jobRepo       database.JobRepository
	leadService   *service.LeadService
	mapsScraper   scraper.Scraper
	interval      time.Duration
	workerCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
	lastRunMu     sync.Mutex
	lastRun       map[string]time.Time
}

func NewScheduler(campaignCache *config.CampaignCache, jobRepo database.JobRepository,
	leadService *service.LeadService, mapsScraper scraper.Scraper) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		campaignCache: campaignCache,
		jobRepo:       jobRepo,
		leadService:   leadService,
		mapsScraper:   mapsScraper,
		interval:      time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:   cfg.WorkerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 300),
		lastRun:       make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueCampaignTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueCampaignTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueCampaignTasks() {
	campaigns := s.campaignCache.GetEnabledCampaigns()
	if len(campaigns) == 0 {
		slog.Debug("No enabled campaigns found")
		return
	}

	slog.Debug("Processing enabled campaigns for task scheduling", "count", len(campaigns))

	now := time.Now().UTC()
	for _, campaign := range campaigns {
		if !s.markCampaignDue(campaign.Name, campaign.Settings.GetScrapeInterval(), now) {
			slog.Debug("Campaign not due for scraping yet", "campaign", campaign.Name)
			continue
		}

		for _, keyword := range campaign.Keywords {
			var province *string
			if campaign.Province != "" {
				p := campaign.Province
				province = &p
			}

			jobID, err := s.jobRepo.CreateJob(s.ctx, keyword, campaign.City, province)
			if err != nil {
				slog.Warn("Failed to create scraping job", "campaign", campaign.Name, "keyword", keyword, "error", err)
				continue
			}

			scrapeTask := NewScrapeJobTask(jobID, keyword, campaign.City, campaign.Settings.LimitPerKeyword, campaign.Settings.AutoAnalyze, s.mapsScraper, s.jobRepo, s.leadService, s)
			if err := s.EnqueueTask(scrapeTask); err != nil {
				slog.Warn("Failed to enqueue ScrapeJobTask", "campaign", campaign.Name, "keyword", keyword, "error", err)
			}
		}
	}
}

// markCampaignDue reports whether the campaign's scrape interval has
// elapsed and records the run time when it has.
func (s *Scheduler) markCampaignDue(name string, interval time.Duration, now time.Time) bool {
	s.lastRunMu.Lock()
	defer s.lastRunMu.Unlock()

	last, ok := s.lastRun[name]
	if ok && now.Before(last.Add(interval)) {
		return false
	}
	s.lastRun[name] = now
	return true
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
