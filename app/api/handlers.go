package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amerello/lead-radar/app/analyzer"
	"github.com/amerello/lead-radar/app/config"
	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/scraper"
	"github.com/amerello/lead-radar/app/service"
	"github.com/amerello/lead-radar/app/tasks"
)

func NewHandler(leadService *service.LeadService, jobRepo database.JobRepository,
	campaignCache *config.CampaignCache, mapsScraper scraper.Scraper,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		leadService:   leadService,
		jobRepo:       jobRepo,
		campaignCache: campaignCache,
		mapsScraper:   mapsScraper,
		scheduler:     scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if stats, err := h.leadService.Stats(c.Request.Context()); err == nil {
		health["leads"] = stats.TotalLeads
	}

	health["loaded_campaigns"] = h.campaignCache.GetCampaignCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListLeads(c *gin.Context) {
	filter := database.ListFilter{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "opportunity_score"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "page_size", 50),
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	if city := c.Query("city"); city != "" {
		filter.City = &city
	}
	if province := c.Query("province"); province != "" {
		filter.Province = &province
	}
	if v, ok := optionalIntQuery(c, "min_score"); ok {
		filter.MinScore = &v
	}
	if v, ok := optionalIntQuery(c, "max_score"); ok {
		filter.MaxScore = &v
	}
	if v, ok := optionalBoolQuery(c, "is_analyzed"); ok {
		filter.IsAnalyzed = &v
	}
	if v, ok := optionalBoolQuery(c, "is_exported"); ok {
		filter.IsExported = &v
	}
	if v, ok := optionalBoolQuery(c, "has_website"); ok {
		filter.HasWebsite = &v
	}
	if v, ok := optionalBoolQuery(c, "has_email"); ok {
		filter.HasEmail = &v
	}

	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_leads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]leadResponse, 0, len(leads))
	for i := range leads {
		responses = append(responses, newLeadResponse(&leads[i]))
	}

	pages := total / filter.PageSize
	if total%filter.PageSize != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"leads":     responses,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
		"pages":     pages,
	})
}

func (h *Handler) APIGetLead(c *gin.Context) {
	id := c.Param("id")

	l, err := h.leadService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderLeadError(c, id, "get_lead", err)
		return
	}

	c.JSON(http.StatusOK, newLeadResponse(l))
}

func (h *Handler) APICreateLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	l, err := h.leadService.Create(c.Request.Context(), database.NewLead{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Province: req.Province,
		Phone:    req.Phone,
		Website:  req.Website,
		Email:    req.Email,
		WhatsApp: req.WhatsApp,
		GmbURL:   req.GmbURL,
		PlaceID:  req.PlaceID,
		Rating:   req.Rating,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Database error", "operation", "create_lead", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, newLeadResponse(l))
}

func (h *Handler) APIDeleteLead(c *gin.Context) {
	id := c.Param("id")

	if err := h.leadService.Delete(c.Request.Context(), id); err != nil {
		h.renderLeadError(c, id, "delete_lead", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIAnalyzeLead(c *gin.Context) {
	id := c.Param("id")

	l, err := h.leadService.Analyze(c.Request.Context(), id)
	if err != nil {
		h.renderLeadError(c, id, "analyze_lead", err)
		return
	}

	c.JSON(http.StatusOK, newLeadResponse(l))
}

func (h *Handler) APIExportLead(c *gin.Context) {
	id := c.Param("id")

	var req exportLeadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
	}

	l, err := h.leadService.Export(c.Request.Context(), id, req.Tags)
	if err != nil {
		h.renderLeadError(c, id, "export_lead", err)
		return
	}

	c.JSON(http.StatusOK, newLeadResponse(l))
}

func (h *Handler) APIBatchAnalyze(c *gin.Context) {
	h.runBatch(c, service.BatchOpAnalyze)
}

func (h *Handler) APIBatchExport(c *gin.Context) {
	h.runBatch(c, service.BatchOpExport)
}

func (h *Handler) runBatch(c *gin.Context, op service.BatchOp) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if len(req.LeadIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lead_ids must not be empty"})
		return
	}

	result := h.leadService.RunBatch(c.Request.Context(), op, req.LeadIDs)

	c.JSON(http.StatusOK, result)
}

func (h *Handler) APIGetStats(c *gin.Context) {
	stats, err := h.leadService.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_leads":           stats.TotalLeads,
		"analyzed_leads":        stats.AnalyzedLeads,
		"exported_leads":        stats.ExportedLeads,
		"avg_opportunity_score": stats.AvgOpportunityScore,
		"leads_by_city":         stats.LeadsByCity,
		"leads_by_score_range":  stats.LeadsByScoreRange,
	})
}

func (h *Handler) APIGetTopOpportunities(c *gin.Context) {
	limit := intQuery(c, "limit", 10)

	opportunities, err := h.leadService.TopOpportunities(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "top_opportunities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"opportunities": opportunities,
		"total":         len(opportunities),
	})
}

func (h *Handler) APIStartScraping(c *gin.Context) {
	var req startScrapingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	city, known := scraper.LookupCity(req.City)
	if !known {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            "Unknown city",
			"available_cities": scraper.AvailableCities(),
		})
		return
	}
	province := &city.Province

	keywords := req.Keywords
	if len(keywords) == 0 {
		keywords = scraper.RealEstateKeywords
	}

	jobs := make([]jobResponse, 0, len(keywords))
	for _, keyword := range keywords {
		jobID, err := h.jobRepo.CreateJob(c.Request.Context(), keyword, city.Name, province)
		if err != nil {
			slog.Error("Database error", "operation", "create_job", "keyword", keyword, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		scrapeTask := tasks.NewScrapeJobTask(jobID, keyword, city.Name, req.Limit, req.AutoAnalyze, h.mapsScraper, h.jobRepo, h.leadService, h.scheduler)
		if err := h.scheduler.EnqueueTask(scrapeTask); err != nil {
			slog.Error("Error enqueueing scrape task", "job_id", jobID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to enqueue scrape task",
				"details": err.Error(),
			})
			return
		}

		job, err := h.jobRepo.GetJob(c.Request.Context(), jobID)
		if err == nil && job != nil {
			jobs = append(jobs, newJobResponse(job))
		}
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Scraping jobs enqueued successfully",
		"jobs":    jobs,
	})
}

func (h *Handler) APIListJobs(c *gin.Context) {
	limit := intQuery(c, "limit", 50)

	jobs, err := h.jobRepo.ListJobs(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_jobs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, newJobResponse(&jobs[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  responses,
		"total": len(responses),
	})
}

func (h *Handler) APIGetJob(c *gin.Context) {
	id := c.Param("id")

	job, err := h.jobRepo.GetJob(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_job", "job_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scraping job not found"})
		return
	}

	c.JSON(http.StatusOK, newJobResponse(job))
}

func (h *Handler) APIListCampaigns(c *gin.Context) {
	campaigns := h.campaignCache.GetCampaigns()

	responses := make([]map[string]interface{}, 0, len(campaigns))
	for _, campaign := range campaigns {
		responses = append(responses, map[string]interface{}{
			"name":              campaign.Name,
			"city":              campaign.City,
			"province":          campaign.Province,
			"keywords":          campaign.Keywords,
			"enabled":           campaign.Settings.Enabled,
			"limit_per_keyword": campaign.Settings.LimitPerKeyword,
			"scrape_interval":   campaign.Settings.GetScrapeInterval().String(),
			"auto_analyze":      campaign.Settings.AutoAnalyze,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": responses,
		"total":     len(responses),
	})
}

func (h *Handler) renderLeadError(c *gin.Context, id, operation string, err error) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
	case errors.Is(err, service.ErrNoWebsite):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Lead has no website to analyze"})
	case errors.Is(err, service.ErrAlreadyExported):
		c.JSON(http.StatusConflict, gin.H{"error": "Lead already exported"})
	case errors.Is(err, analyzer.ErrTimeout), errors.Is(err, analyzer.ErrUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Website probe failed", "details": err.Error()})
	default:
		slog.Error("Database error", "operation", operation, "lead_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func optionalIntQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func optionalBoolQuery(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
