package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/lead"
)

// Contact is the payload pushed to Go High Level for one lead.
type Contact struct {
	Name         string
	Email        *string
	Phone        string
	Address      string
	City         string
	Province     string
	Website      *string
	Tags         []string
	CustomFields map[string]string
}

// Exporter creates CRM contacts for leads. Implementations must not retry
// internally; the lifecycle decides what a failure means.
type Exporter interface {
	ExportContact(ctx context.Context, contact Contact) (contactID string, err error)
}

// Client talks to the Go High Level REST API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	locationID string
	workflowID string
	baseURL    string
}

var _ Exporter = (*Client)(nil)

func NewClient(httpClient *http.Client, apiKey, locationID, workflowID string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		locationID: locationID,
		workflowID: workflowID,
		baseURL:    "https://rest.gohighlevel.com/v1",
	}
}

// WithBaseURL points the client at a different endpoint; used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type contactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

// ExportContact creates the contact and, when a workflow is configured,
// enrolls it. A workflow failure does not undo the created contact.
func (c *Client) ExportContact(ctx context.Context, contact Contact) (string, error) {
	payload := map[string]any{
		"locationId": c.locationID,
		"firstName":  firstName(contact.Name),
		"lastName":   lastName(contact.Name),
		"name":       contact.Name,
		"phone":      contact.Phone,
		"address1":   contact.Address,
		"city":       contact.City,
		"state":      contact.Province,
		"country":    "Argentina",
		"tags":       contact.Tags,
		"source":     "Lead Radar",
	}
	if contact.Email != nil {
		payload["email"] = *contact.Email
	}
	if contact.Website != nil {
		payload["website"] = *contact.Website
	}
	if len(contact.CustomFields) > 0 {
		payload["customField"] = contact.CustomFields
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/contacts/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create contact request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("contact request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("contact creation returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	var parsed contactResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse contact response: %w", err)
	}
	if parsed.Contact.ID == "" {
		return "", fmt.Errorf("contact response carried no id")
	}

	if c.workflowID != "" {
		// The contact exists; enrollment is best effort.
		if err := c.triggerWorkflow(ctx, parsed.Contact.ID); err != nil {
			slog.Warn("Workflow trigger failed", "contact_id", parsed.Contact.ID, "error", err)
		}
	}

	return parsed.Contact.ID, nil
}

func (c *Client) triggerWorkflow(ctx context.Context, contactID string) error {
	url := fmt.Sprintf("%s/contacts/%s/workflow/%s", c.baseURL, contactID, c.workflowID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create workflow request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("workflow trigger returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// BuildContact assembles the export payload for a lead, tagging every
// technology gap so CRM campaigns can segment on them.
func BuildContact(l database.Lead, extraTags []string) Contact {
	tags := append([]string{}, extraTags...)
	if l.TechSignals != nil {
		tags = append(tags, lead.GapTags(*l.TechSignals)...)
	}

	custom := map[string]string{
		"opportunity_score": fmt.Sprintf("%d", l.OpportunityScore),
		"score_category":    string(lead.Classify(l.OpportunityScore)),
	}
	if l.GmbURL != nil {
		custom["gmb_url"] = *l.GmbURL
	}
	if l.Rating != nil {
		custom["rating"] = fmt.Sprintf("%.1f", *l.Rating)
	}
	if l.ReviewsCount != nil {
		custom["reviews_count"] = fmt.Sprintf("%d", *l.ReviewsCount)
	}

	return Contact{
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Address:      l.Address,
		City:         l.City,
		Province:     l.Province,
		Website:      l.Website,
		Tags:         tags,
		CustomFields: custom,
	}
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full
	}
	return parts[0]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
