package database

import (
	"context"
	"time"

	"github.com/amerello/lead-radar/app/lead"
)

// TopOpportunity is the trimmed projection returned by the dashboard's
// top-opportunities listing.
type TopOpportunity struct {
	ID               string
	Name             string
	City             string
	OpportunityScore int
	Website          *string
	Phone            string
	IsAnalyzed       bool
}

type LeadRepository interface {
	CreateLead(ctx context.Context, l NewLead) (string, error)
	GetLead(ctx context.Context, id string) (*Lead, error)
	GetLeadByPlaceID(ctx context.Context, placeID string) (*Lead, error)
	ListLeads(ctx context.Context, filter ListFilter) ([]Lead, int, error)
	DeleteLead(ctx context.Context, id string) (bool, error)

	// SaveAnalysis replaces a lead's signals wholesale and updates score
	// and analysis markers in one transaction. Returns false if the lead
	// does not exist.
	SaveAnalysis(ctx context.Context, id string, signals lead.TechSignals, score int, analyzedAt time.Time) (bool, error)

	// MarkExported records a successful export exactly once. Returns false
	// if the lead does not exist.
	MarkExported(ctx context.Context, id string, contactID string, exportedAt time.Time) (bool, error)

	GetStats(ctx context.Context) (*Stats, error)
	GetTopOpportunities(ctx context.Context, limit int) ([]TopOpportunity, error)
}

type JobRepository interface {
	CreateJob(ctx context.Context, keyword, city string, province *string) (string, error)
	GetJob(ctx context.Context, id string) (*ScrapingJob, error)
	ListJobs(ctx context.Context, limit int) ([]ScrapingJob, error)

	MarkJobRunning(ctx context.Context, id string) error
	MarkJobCompleted(ctx context.Context, id string, leadsFound int) error
	MarkJobFailed(ctx context.Context, id string, reason string) error
}
