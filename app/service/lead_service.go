package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amerello/lead-radar/app/analyzer"
	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/ghl"
	"github.com/amerello/lead-radar/app/lead"
)

// LeadService is the lead lifecycle manager: it owns every mutation of a
// lead after discovery. Collaborators are passed in at construction; the
// service holds no global state.
type LeadService struct {
	leadRepo database.LeadRepository
	prober   analyzer.Prober
	exporter ghl.Exporter
	locks    *keyedMutex
}

func NewLeadService(leadRepo database.LeadRepository, prober analyzer.Prober, exporter ghl.Exporter) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		prober:   prober,
		exporter: exporter,
		locks:    newKeyedMutex(),
	}
}

// Get fetches a lead, failing with ErrLeadNotFound when absent.
func (s *LeadService) Get(ctx context.Context, id string) (*database.Lead, error) {
	l, err := s.leadRepo.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}
	return l, nil
}

// List passes the filter straight to the repository.
func (s *LeadService) List(ctx context.Context, filter database.ListFilter) ([]database.Lead, int, error) {
	return s.leadRepo.ListLeads(ctx, filter)
}

// Create registers a manually entered lead. Discovery via scraping goes
// through CreateFromDiscovery instead.
func (s *LeadService) Create(ctx context.Context, l database.NewLead) (*database.Lead, error) {
	if strings.TrimSpace(l.Name) == "" {
		return nil, fmt.Errorf("%w: lead name is required", ErrValidation)
	}
	if l.PlaceID != nil {
		existing, err := s.leadRepo.GetLeadByPlaceID(ctx, *l.PlaceID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: lead with place_id %s already exists", ErrValidation, *l.PlaceID)
		}
	}

	id, err := s.leadRepo.CreateLead(ctx, l)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// CreateFromDiscovery stores a scraped candidate unless its place was seen
// before. Returns the new lead id and whether one was created.
func (s *LeadService) CreateFromDiscovery(ctx context.Context, l database.NewLead) (string, bool, error) {
	if l.PlaceID != nil {
		existing, err := s.leadRepo.GetLeadByPlaceID(ctx, *l.PlaceID)
		if err != nil {
			return "", false, err
		}
		if existing != nil {
			return existing.ID, false, nil
		}
	}

	id, err := s.leadRepo.CreateLead(ctx, l)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Analyze probes the lead's website and stores the resulting snapshot,
// score and analysis markers atomically. Re-analysis replaces the previous
// snapshot wholesale; with an unchanged probe result the stored state comes
// out identical. A probe failure leaves the lead exactly as it was.
func (s *LeadService) Analyze(ctx context.Context, id string) (*database.Lead, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Website == nil {
		return nil, fmt.Errorf("lead %s: %w", id, ErrNoWebsite)
	}

	signals, err := s.prober.Probe(ctx, *l.Website)
	if err != nil {
		return nil, fmt.Errorf("lead %s: %w", id, err)
	}

	score := lead.Score(signals)
	found, err := s.leadRepo.SaveAnalysis(ctx, id, signals, score, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("lead %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}

	slog.Info("Lead analyzed", "lead_id", id, "score", score, "category", lead.Classify(score))

	return s.Get(ctx, id)
}

// Export pushes the lead to the CRM. Policy: re-exporting is rejected with
// ErrAlreadyExported and the collaborator is not invoked again, so no
// duplicate external contact can be created. On collaborator failure the
// lead is left untouched.
func (s *LeadService) Export(ctx context.Context, id string, extraTags []string) (*database.Lead, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.IsExported {
		return nil, fmt.Errorf("lead %s: %w", id, ErrAlreadyExported)
	}

	contact := ghl.BuildContact(*l, extraTags)
	contactID, err := s.exporter.ExportContact(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("lead %s: %w", id, err)
	}

	found, err := s.leadRepo.MarkExported(ctx, id, contactID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("lead %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}

	slog.Info("Lead exported", "lead_id", id, "contact_id", contactID)

	return s.Get(ctx, id)
}

// Delete removes the lead and its signals permanently.
func (s *LeadService) Delete(ctx context.Context, id string) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	found, err := s.leadRepo.DeleteLead(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("lead %s: %w", id, ErrLeadNotFound)
	}

	slog.Info("Lead deleted", "lead_id", id)
	return nil
}

// Stats exposes the dashboard aggregates.
func (s *LeadService) Stats(ctx context.Context) (*database.Stats, error) {
	return s.leadRepo.GetStats(ctx)
}

// TopOpportunities lists the best not-yet-exported leads.
func (s *LeadService) TopOpportunities(ctx context.Context, limit int) ([]database.TopOpportunity, error) {
	return s.leadRepo.GetTopOpportunities(ctx, limit)
}
