package api

import (
	"time"

	"github.com/amerello/lead-radar/app/config"
	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/lead"
	"github.com/amerello/lead-radar/app/scraper"
	"github.com/amerello/lead-radar/app/service"
	"github.com/amerello/lead-radar/app/tasks"
)

type Handler struct {
	leadService   *service.LeadService
	jobRepo       database.JobRepository
	campaignCache *config.CampaignCache
	mapsScraper   scraper.Scraper
	scheduler     tasks.TaskSchedulerInterface
}

type createLeadRequest struct {
	Name     string   `json:"name" binding:"required"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	Province string   `json:"province"`
	Phone    string   `json:"phone"`
	Website  *string  `json:"website"`
	Email    *string  `json:"email"`
	WhatsApp *string  `json:"whatsapp"`
	GmbURL   *string  `json:"gmb_url"`
	PlaceID  *string  `json:"place_id"`
	Rating   *float64 `json:"rating"`
}

type exportLeadRequest struct {
	Tags []string `json:"tags"`
}

type batchRequest struct {
	LeadIDs []string `json:"lead_ids" binding:"required"`
	Tags    []string `json:"tags"`
}

type startScrapingRequest struct {
	City        string   `json:"city" binding:"required"`
	Keywords    []string `json:"keywords"`
	Limit       int      `json:"limit"`
	AutoAnalyze bool     `json:"auto_analyze"`
}

type techSignalsResponse struct {
	HasWebsite          bool    `json:"has_website"`
	HasSSL              bool    `json:"has_ssl"`
	HasChatWidget       bool    `json:"has_chat_widget"`
	ChatProvider        *string `json:"chat_provider,omitempty"`
	HasWhatsAppButton   bool    `json:"has_whatsapp_button"`
	HasContactForm      bool    `json:"has_contact_form"`
	HasCRMForms         bool    `json:"has_crm_forms"`
	CRMProvider         *string `json:"crm_provider,omitempty"`
	HasFacebook         bool    `json:"has_facebook"`
	FacebookURL         *string `json:"facebook_url,omitempty"`
	HasInstagram        bool    `json:"has_instagram"`
	InstagramURL        *string `json:"instagram_url,omitempty"`
	HasLinkedIn         bool    `json:"has_linkedin"`
	LinkedInURL         *string `json:"linkedin_url,omitempty"`
	HasGoogleAnalytics  bool    `json:"has_google_analytics"`
	HasGoogleTagManager bool    `json:"has_google_tag_manager"`
	HasFacebookPixel    bool    `json:"has_facebook_pixel"`
	HasBlog             bool    `json:"has_blog"`
}

type leadResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Province string  `json:"province"`
	Phone    string  `json:"phone"`
	Website  *string `json:"website"`
	Email    *string `json:"email"`
	WhatsApp *string `json:"whatsapp"`
	GmbURL   *string `json:"gmb_url"`
	PlaceID  *string `json:"place_id"`

	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	PhotosCount  *int     `json:"photos_count"`

	OpportunityScore int                  `json:"opportunity_score"`
	Category         string               `json:"category"`
	CategoryLabel    string               `json:"category_label"`
	IsAnalyzed       bool                 `json:"is_analyzed"`
	TechSignals      *techSignalsResponse `json:"tech_signals,omitempty"`
	Gaps             []gapResponse        `json:"gaps,omitempty"`

	IsExported   bool    `json:"is_exported"`
	GHLContactID *string `json:"ghl_contact_id"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	AnalyzedAt *time.Time `json:"analyzed_at"`
	ExportedAt *time.Time `json:"exported_at"`
}

type gapResponse struct {
	Capability string `json:"capability"`
	Label      string `json:"label"`
	Tag        string `json:"tag"`
	Weight     int    `json:"weight"`
}

func newLeadResponse(l *database.Lead) leadResponse {
	info := lead.ClassifyInfo(l.OpportunityScore)

	resp := leadResponse{
		ID:               l.ID,
		Name:             l.Name,
		Address:          l.Address,
		City:             l.City,
		Province:         l.Province,
		Phone:            l.Phone,
		Website:          l.Website,
		Email:            l.Email,
		WhatsApp:         l.WhatsApp,
		GmbURL:           l.GmbURL,
		PlaceID:          l.PlaceID,
		Rating:           l.Rating,
		ReviewsCount:     l.ReviewsCount,
		PhotosCount:      l.PhotosCount,
		OpportunityScore: l.OpportunityScore,
		Category:         string(info.Category),
		CategoryLabel:    info.Label,
		IsAnalyzed:       l.IsAnalyzed,
		IsExported:       l.IsExported,
		GHLContactID:     l.GHLContactID,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		AnalyzedAt:       l.AnalyzedAt,
		ExportedAt:       l.ExportedAt,
	}

	if l.TechSignals != nil {
		s := l.TechSignals
		resp.TechSignals = &techSignalsResponse{
			HasWebsite:          s.HasWebsite,
			HasSSL:              s.HasSSL,
			HasChatWidget:       s.HasChatWidget,
			ChatProvider:        s.ChatProvider,
			HasWhatsAppButton:   s.HasWhatsAppButton,
			HasContactForm:      s.HasContactForm,
			HasCRMForms:         s.HasCRMForms,
			CRMProvider:         s.CRMProvider,
			HasFacebook:         s.HasFacebook,
			FacebookURL:         s.FacebookURL,
			HasInstagram:        s.HasInstagram,
			InstagramURL:        s.InstagramURL,
			HasLinkedIn:         s.HasLinkedIn,
			LinkedInURL:         s.LinkedInURL,
			HasGoogleAnalytics:  s.HasGoogleAnalytics,
			HasGoogleTagManager: s.HasGoogleTagManager,
			HasFacebookPixel:    s.HasFacebookPixel,
			HasBlog:             s.HasBlog,
		}

		summary := lead.Gaps(*s)
		for _, gap := range summary.Gaps {
			resp.Gaps = append(resp.Gaps, gapResponse{
				Capability: string(gap.Capability),
				Label:      gap.Label,
				Tag:        gap.Tag,
				Weight:     lead.Weight(gap.Capability),
			})
		}
	}

	return resp
}

type jobResponse struct {
	ID           string     `json:"id"`
	Keyword      string     `json:"keyword"`
	City         string     `json:"city"`
	Province     *string    `json:"province"`
	Status       string     `json:"status"`
	LeadsFound   int        `json:"leads_found"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func newJobResponse(j *database.ScrapingJob) jobResponse {
	return jobResponse{
		ID:           j.ID,
		Keyword:      j.Keyword,
		City:         j.City,
		Province:     j.Province,
		Status:       j.Status,
		LeadsFound:   j.LeadsFound,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}
