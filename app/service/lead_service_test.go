package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/amerello/lead-radar/app/analyzer"
	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/ghl"
	"github.com/amerello/lead-radar/app/lead"
)

type fakeLeadRepo struct {
	mu    sync.Mutex
	seq   int
	leads map[string]*database.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[string]*database.Lead{}}
}

func (r *fakeLeadRepo) CreateLead(_ context.Context, l database.NewLead) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("lead-%d", r.seq)
	now := time.Now().UTC()
	r.leads[id] = &database.Lead{
		ID:        id,
		Name:      l.Name,
		Address:   l.Address,
		City:      l.City,
		Province:  l.Province,
		Phone:     l.Phone,
		Website:   l.Website,
		Email:     l.Email,
		PlaceID:   l.PlaceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (r *fakeLeadRepo) GetLead(_ context.Context, id string) (*database.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLeadRepo) GetLeadByPlaceID(_ context.Context, placeID string) (*database.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.PlaceID != nil && *l.PlaceID == placeID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLeadRepo) ListLeads(_ context.Context, _ database.ListFilter) ([]database.Lead, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]database.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (r *fakeLeadRepo) DeleteLead(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[id]; !ok {
		return false, nil
	}
	delete(r.leads, id)
	return true, nil
}

func (r *fakeLeadRepo) SaveAnalysis(_ context.Context, id string, signals lead.TechSignals, score int, analyzedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return false, nil
	}
	s := signals
	l.TechSignals = &s
	l.OpportunityScore = score
	l.IsAnalyzed = true
	l.AnalyzedAt = &analyzedAt
	l.UpdatedAt = analyzedAt
	return true, nil
}

func (r *fakeLeadRepo) MarkExported(_ context.Context, id string, contactID string, exportedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return false, nil
	}
	l.IsExported = true
	l.GHLContactID = &contactID
	l.ExportedAt = &exportedAt
	l.UpdatedAt = exportedAt
	return true, nil
}

func (r *fakeLeadRepo) GetStats(_ context.Context) (*database.Stats, error) {
	return &database.Stats{}, nil
}

func (r *fakeLeadRepo) GetTopOpportunities(_ context.Context, _ int) ([]database.TopOpportunity, error) {
	return nil, nil
}

type fakeProber struct {
	mu      sync.Mutex
	calls   int
	signals lead.TechSignals
	err     error
}

func (p *fakeProber) Probe(_ context.Context, _ string) (lead.TechSignals, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.signals, p.err
}

func (p *fakeProber) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeExporter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *fakeExporter) ExportContact(_ context.Context, _ ghl.Contact) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return fmt.Sprintf("contact-%d", e.calls), nil
}

func (e *fakeExporter) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func strPtr(s string) *string { return &s }

func seedLead(t *testing.T, repo *fakeLeadRepo, website *string) string {
	t.Helper()
	id, err := repo.CreateLead(context.Background(), database.NewLead{
		Name:    "Inmobiliaria Norte",
		City:    "Rosario",
		Website: website,
	})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	return id
}

func TestCreateValidation(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(), &fakeProber{}, &fakeExporter{})

	_, err := svc.Create(context.Background(), database.NewLead{Name: "   "})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() error = %v, want ErrValidation", err)
	}
}

func TestCreateDuplicatePlaceID(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := NewLeadService(repo, &fakeProber{}, &fakeExporter{})

	_, err := svc.Create(context.Background(), database.NewLead{Name: "A", PlaceID: strPtr("place-1")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Create(context.Background(), database.NewLead{Name: "B", PlaceID: strPtr("place-1")})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Create() duplicate place_id error = %v, want ErrValidation", err)
	}
}

func TestCreateFromDiscoveryDedupes(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := NewLeadService(repo, &fakeProber{}, &fakeExporter{})

	id1, created, err := svc.CreateFromDiscovery(context.Background(), database.NewLead{Name: "A", PlaceID: strPtr("place-1")})
	if err != nil || !created {
		t.Fatalf("CreateFromDiscovery() = %q, %v, %v, want created", id1, created, err)
	}

	id2, created, err := svc.CreateFromDiscovery(context.Background(), database.NewLead{Name: "A", PlaceID: strPtr("place-1")})
	if err != nil {
		t.Fatalf("CreateFromDiscovery() error = %v", err)
	}
	if created {
		t.Error("CreateFromDiscovery() created duplicate for same place_id")
	}
	if id2 != id1 {
		t.Errorf("CreateFromDiscovery() id = %q, want existing %q", id2, id1)
	}
}

func TestAnalyzeStoresScoreAndSignals(t *testing.T) {
	repo := newFakeLeadRepo()
	prober := &fakeProber{signals: lead.TechSignals{HasWebsite: true, HasSSL: true}}
	svc := NewLeadService(repo, prober, &fakeExporter{})

	id := seedLead(t, repo, strPtr("https://example.com.ar"))

	l, err := svc.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !l.IsAnalyzed {
		t.Error("Analyze() did not mark lead analyzed")
	}
	if l.OpportunityScore != 58 {
		t.Errorf("Analyze() score = %d, want 58", l.OpportunityScore)
	}
	if l.TechSignals == nil || !l.TechSignals.HasSSL {
		t.Error("Analyze() did not store probed signals")
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	repo := newFakeLeadRepo()
	prober := &fakeProber{signals: lead.TechSignals{HasWebsite: true}}
	svc := NewLeadService(repo, prober, &fakeExporter{})

	id := seedLead(t, repo, strPtr("https://example.com.ar"))

	first, err := svc.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	second, err := svc.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("Analyze() second run error = %v", err)
	}
	if second.OpportunityScore != first.OpportunityScore {
		t.Errorf("re-analysis score = %d, want %d", second.OpportunityScore, first.OpportunityScore)
	}
	if *second.TechSignals != *first.TechSignals {
		t.Error("re-analysis changed stored signals despite identical probe result")
	}
}

func TestAnalyzeNoWebsite(t *testing.T) {
	repo := newFakeLeadRepo()
	prober := &fakeProber{}
	svc := NewLeadService(repo, prober, &fakeExporter{})

	id := seedLead(t, repo, nil)

	_, err := svc.Analyze(context.Background(), id)
	if !errors.Is(err, ErrNoWebsite) {
		t.Errorf("Analyze() error = %v, want ErrNoWebsite", err)
	}
	if prober.callCount() != 0 {
		t.Error("Analyze() probed a lead without a website")
	}
}

func TestAnalyzeProbeFailureLeavesLeadUntouched(t *testing.T) {
	repo := newFakeLeadRepo()
	prober := &fakeProber{err: analyzer.ErrUnreachable}
	svc := NewLeadService(repo, prober, &fakeExporter{})

	id := seedLead(t, repo, strPtr("https://example.com.ar"))

	_, err := svc.Analyze(context.Background(), id)
	if !errors.Is(err, analyzer.ErrUnreachable) {
		t.Fatalf("Analyze() error = %v, want ErrUnreachable", err)
	}

	l, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if l.IsAnalyzed || l.TechSignals != nil || l.OpportunityScore != 0 {
		t.Error("failed probe mutated lead state")
	}
}

func TestAnalyzeNotFound(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(), &fakeProber{}, &fakeExporter{})

	_, err := svc.Analyze(context.Background(), "missing")
	if !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("Analyze() error = %v, want ErrLeadNotFound", err)
	}
}

func TestExportMarksLead(t *testing.T) {
	repo := newFakeLeadRepo()
	exporter := &fakeExporter{}
	svc := NewLeadService(repo, &fakeProber{}, exporter)

	id := seedLead(t, repo, strPtr("https://example.com.ar"))

	l, err := svc.Export(context.Background(), id, []string{"campaign-q3"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !l.IsExported {
		t.Error("Export() did not mark lead exported")
	}
	if l.GHLContactID == nil || *l.GHLContactID == "" {
		t.Error("Export() did not store the contact id")
	}
}

func TestExportAlreadyExported(t *testing.T) {
	repo := newFakeLeadRepo()
	exporter := &fakeExporter{}
	svc := NewLeadService(repo, &fakeProber{}, exporter)

	id := seedLead(t, repo, strPtr("https://example.com.ar"))

	if _, err := svc.Export(context.Background(), id, nil); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	_, err := svc.Export(context.Background(), id, nil)
	if !errors.Is(err, ErrAlreadyExported) {
		t.Errorf("Export() second run error = %v, want ErrAlreadyExported", err)
	}
	if exporter.callCount() != 1 {
		t.Errorf("exporter invoked %d times, want 1", exporter.callCount())
	}
}

func TestExportCollaboratorFailure(t *testing.T) {
	repo := newFakeLeadRepo()
	exporter := &fakeExporter{err: errors.New("ghl: 401 unauthorized")}
	svc := NewLeadService(repo, &fakeProber{}, exporter)

	id := seedLead(t, repo, strPtr("https://example.com.ar"))

	if _, err := svc.Export(context.Background(), id, nil); err == nil {
		t.Fatal("Export() error = nil, want failure")
	}

	l, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if l.IsExported {
		t.Error("failed export marked lead exported")
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(), &fakeProber{}, &fakeExporter{})

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("Delete() error = %v, want ErrLeadNotFound", err)
	}
}

func TestDeleteRemovesLead(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := NewLeadService(repo, &fakeProber{}, &fakeExporter{})

	id := seedLead(t, repo, nil)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrLeadNotFound", err)
	}
}
