package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amerello/lead-radar/app/service"
)

type AnalyzeLeadTask struct {
	Task
	LeadID      string
	leadService *service.LeadService
}

func NewAnalyzeLeadTask(leadID string, leadService *service.LeadService) *AnalyzeLeadTask {
	return &AnalyzeLeadTask{
		Task:        NewTask(TaskTypeAnalyzeLead, leadID),
		LeadID:      leadID,
		leadService: leadService,
	}
}

func (t *AnalyzeLeadTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	analyzed, err := t.leadService.Analyze(ctx, t.LeadID)
	if err != nil {
		// Retrying cannot help a lead that no longer exists or has no
		// website to probe.
		if errors.Is(err, service.ErrLeadNotFound) || errors.Is(err, service.ErrNoWebsite) {
			slog.Warn("Skipping lead analysis", "lead_id", t.LeadID, "reason", err)
			return nil
		}
		return fmt.Errorf("failed to analyze lead: %w", err)
	}

	slog.Info("Task completed",
		"type", "AnalyzeLead",
		"lead_id", t.LeadID,
		"duration", t.GetDuration(),
		"score", analyzed.OpportunityScore)

	return nil
}
