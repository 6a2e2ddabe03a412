package database

import (
	"time"

	"github.com/amerello/lead-radar/app/lead"
)

// Lead is a discovered business candidate as stored in the database.
// Discovery facts come from the scraper and never change; analysis and
// export facts are mutated only through the repository write methods.
type Lead struct {
	ID       string
	Name     string
	Address  string
	City     string
	Province string
	Phone    string
	Website  *string
	Email    *string
	WhatsApp *string
	GmbURL   *string
	PlaceID  *string

	Rating       *float64
	ReviewsCount *int
	PhotosCount  *int

	OpportunityScore int
	IsAnalyzed       bool
	TechSignals      *lead.TechSignals

	IsExported   bool
	GHLContactID *string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	AnalyzedAt *time.Time
	ExportedAt *time.Time
}

// NewLead carries the discovery facts for lead creation.
type NewLead struct {
	Name         string
	Address      string
	City         string
	Province     string
	Phone        string
	Website      *string
	Email        *string
	WhatsApp     *string
	GmbURL       *string
	PlaceID      *string
	Rating       *float64
	ReviewsCount *int
	PhotosCount  *int
}

// ScrapingJob tracks one unit of discovery work. Status progresses
// pending -> running -> completed|failed; terminal states are final and a
// failed job is restarted as a new job.
type ScrapingJob struct {
	ID           string
	Keyword      string
	City         string
	Province     *string
	Status       string
	LeadsFound   int
	ErrorMessage *string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// ListFilter describes the query surface for lead listings. Nil pointer
// fields are not applied.
type ListFilter struct {
	City       *string
	Province   *string
	MinScore   *int
	MaxScore   *int
	IsAnalyzed *bool
	IsExported *bool
	HasWebsite *bool
	HasEmail   *bool
	Search     string

	SortBy    string // opportunity_score, name, created_at, rating
	SortOrder string // asc, desc

	Page     int
	PageSize int
}

// Stats is the dashboard aggregate consumed by the stats endpoint.
type Stats struct {
	TotalLeads          int
	AnalyzedLeads       int
	ExportedLeads       int
	AvgOpportunityScore float64
	LeadsByCity         map[string]int
	LeadsByScoreRange   map[string]int
}
