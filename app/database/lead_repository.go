package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amerello/lead-radar/app/lead"
)

// LeadRepositoryImpl handles database operations for leads and their
// tech signal snapshots.
type LeadRepositoryImpl struct {
	db *DB
}

var _ LeadRepository = (*LeadRepositoryImpl)(nil)

func NewLeadRepository(db *DB) *LeadRepositoryImpl {
	return &LeadRepositoryImpl{db: db}
}

const leadColumns = `id, name, address, city, province, phone, website, email, whatsapp,
	gmb_url, place_id, rating, reviews_count, photos_count,
	opportunity_score, is_analyzed, is_exported, ghl_contact_id,
	created_at, updated_at, analyzed_at, exported_at`

// CreateLead inserts the discovery facts for a new lead. Analysis and
// export fields start unset.
func (r *LeadRepositoryImpl) CreateLead(ctx context.Context, l NewLead) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (
			id, name, address, city, province, phone, website, email, whatsapp,
			gmb_url, place_id, rating, reviews_count, photos_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, l.Name, l.Address, l.City, l.Province, l.Phone, l.Website, l.Email, l.WhatsApp,
		l.GmbURL, l.PlaceID, l.Rating, l.ReviewsCount, l.PhotosCount, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create lead: %w", err)
	}

	return id, nil
}

// GetLead fetches a lead with its tech signals. Returns (nil, nil) when the
// lead does not exist.
func (r *LeadRepositoryImpl) GetLead(ctx context.Context, id string) (*Lead, error) {
	return r.getLeadWhere(ctx, "id = ?", id)
}

// GetLeadByPlaceID fetches a lead by its Google place identifier, used for
// discovery deduplication.
func (r *LeadRepositoryImpl) GetLeadByPlaceID(ctx context.Context, placeID string) (*Lead, error) {
	return r.getLeadWhere(ctx, "place_id = ?", placeID)
}

func (r *LeadRepositoryImpl) getLeadWhere(ctx context.Context, where string, arg any) (*Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE `+where, arg)

	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	signals, err := r.getSignals(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.TechSignals = signals

	return l, nil
}

var sortColumns = map[string]string{
	"opportunity_score": "opportunity_score",
	"name":              "name",
	"created_at":        "created_at",
	"rating":            "rating",
}

// ListLeads returns one page of leads matching the filter plus the total
// match count. Signals are attached per lead.
func (r *LeadRepositoryImpl) ListLeads(ctx context.Context, filter ListFilter) ([]Lead, int, error) {
	var conditions []string
	var args []any

	addCondition := func(cond string, condArgs ...any) {
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}

	if filter.City != nil {
		addCondition("city = ?", *filter.City)
	}
	if filter.Province != nil {
		addCondition("province = ?", *filter.Province)
	}
	if filter.MinScore != nil {
		addCondition("opportunity_score >= ?", *filter.MinScore)
	}
	if filter.MaxScore != nil {
		addCondition("opportunity_score <= ?", *filter.MaxScore)
	}
	if filter.IsAnalyzed != nil {
		addCondition("is_analyzed = ?", *filter.IsAnalyzed)
	}
	if filter.IsExported != nil {
		addCondition("is_exported = ?", *filter.IsExported)
	}
	if filter.HasWebsite != nil {
		if *filter.HasWebsite {
			addCondition("website IS NOT NULL")
		} else {
			addCondition("website IS NULL")
		}
	}
	if filter.HasEmail != nil {
		if *filter.HasEmail {
			addCondition("email IS NOT NULL")
		} else {
			addCondition("email IS NULL")
		}
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		addCondition("(name LIKE ? OR address LIKE ? OR email LIKE ?)", pattern, pattern, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	sortBy, ok := sortColumns[filter.SortBy]
	if !ok {
		sortBy = "opportunity_score"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := fmt.Sprintf("SELECT %s FROM leads%s ORDER BY %s %s LIMIT ? OFFSET ?",
		leadColumns, where, sortBy, order)
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, (page-1)*pageSize)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating lead rows: %w", err)
	}

	for i := range leads {
		signals, err := r.getSignals(ctx, leads[i].ID)
		if err != nil {
			return nil, 0, err
		}
		leads[i].TechSignals = signals
	}

	return leads, total, nil
}

// DeleteLead removes a lead permanently; signals go with it via CASCADE.
func (r *LeadRepositoryImpl) DeleteLead(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM leads WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete lead: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// SaveAnalysis stores a probe snapshot and the derived score atomically.
// The previous snapshot, if any, is replaced wholesale.
func (r *LeadRepositoryImpl) SaveAnalysis(ctx context.Context, id string, signals lead.TechSignals, score int, analyzedAt time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE leads
		SET opportunity_score = ?, is_analyzed = ?, analyzed_at = ?, updated_at = ?
		WHERE id = ?
	`, score, true, analyzedAt, analyzedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to update lead analysis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tech_signals WHERE lead_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to clear previous signals: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tech_signals (
			id, lead_id, has_website, has_ssl, has_chat_widget, chat_provider,
			has_contact_form, has_whatsapp_button,
			has_facebook, facebook_url, has_instagram, instagram_url, has_linkedin, linkedin_url,
			has_google_analytics, has_google_tag_manager, has_facebook_pixel,
			has_crm_forms, crm_provider, has_blog, analyzed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), id,
		signals.HasWebsite, signals.HasSSL, signals.HasChatWidget, signals.ChatProvider,
		signals.HasContactForm, signals.HasWhatsAppButton,
		signals.HasFacebook, signals.FacebookURL, signals.HasInstagram, signals.InstagramURL,
		signals.HasLinkedIn, signals.LinkedInURL,
		signals.HasGoogleAnalytics, signals.HasGoogleTagManager, signals.HasFacebookPixel,
		signals.HasCRMForms, signals.CRMProvider, signals.HasBlog, analyzedAt)
	if err != nil {
		return false, fmt.Errorf("failed to store signals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit analysis: %w", err)
	}
	return true, nil
}

// MarkExported records a successful export.
func (r *LeadRepositoryImpl) MarkExported(ctx context.Context, id string, contactID string, exportedAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE leads
		SET is_exported = ?, ghl_contact_id = ?, exported_at = ?, updated_at = ?
		WHERE id = ?
	`, true, contactID, exportedAt, exportedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark lead exported: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// GetStats computes the dashboard aggregates. Score-range buckets are
// derived from the category table so thresholds live in one place.
func (r *LeadRepositoryImpl) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		LeadsByCity:       make(map[string]int),
		LeadsByScoreRange: make(map[string]int),
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(is_analyzed), 0),
		       COALESCE(SUM(is_exported), 0),
		       COALESCE(AVG(opportunity_score), 0)
		FROM leads
	`).Scan(&stats.TotalLeads, &stats.AnalyzedLeads, &stats.ExportedLeads, &stats.AvgOpportunityScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead counts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT CASE WHEN city = '' THEN 'Unknown' ELSE city END, COUNT(*)
		FROM leads
		GROUP BY 1
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get leads by city: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var city string
		var count int
		if err := rows.Scan(&city, &count); err != nil {
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		stats.LeadsByCity[city] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}

	rangeRows, err := r.db.QueryContext(ctx, scoreRangeQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to get leads by score range: %w", err)
	}
	defer rangeRows.Close()

	for rangeRows.Next() {
		var rangeText string
		var count int
		if err := rangeRows.Scan(&rangeText, &count); err != nil {
			return nil, fmt.Errorf("failed to scan score range row: %w", err)
		}
		stats.LeadsByScoreRange[rangeText] = count
	}
	if err := rangeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score range rows: %w", err)
	}

	return stats, nil
}

// scoreRangeQuery builds the bucket aggregation from the category table
// rather than restating thresholds in SQL.
func scoreRangeQuery() string {
	var b strings.Builder
	b.WriteString("SELECT CASE\n")
	for _, info := range lead.Categories() {
		fmt.Fprintf(&b, "\t\tWHEN opportunity_score >= %d THEN '%s'\n", info.MinScore, info.RangeText)
	}
	b.WriteString("\tEND, COUNT(*) FROM leads GROUP BY 1")
	return b.String()
}

// GetTopOpportunities returns the best not-yet-exported leads.
func (r *LeadRepositoryImpl) GetTopOpportunities(ctx context.Context, limit int) ([]TopOpportunity, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, city, opportunity_score, website, phone, is_analyzed
		FROM leads
		WHERE is_exported = 0
		ORDER BY opportunity_score DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top opportunities: %w", err)
	}
	defer rows.Close()

	var top []TopOpportunity
	for rows.Next() {
		var o TopOpportunity
		if err := rows.Scan(&o.ID, &o.Name, &o.City, &o.OpportunityScore, &o.Website, &o.Phone, &o.IsAnalyzed); err != nil {
			return nil, fmt.Errorf("failed to scan top opportunity row: %w", err)
		}
		top = append(top, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top opportunity rows: %w", err)
	}

	return top, nil
}

func (r *LeadRepositoryImpl) getSignals(ctx context.Context, leadID string) (*lead.TechSignals, error) {
	var s lead.TechSignals
	err := r.db.QueryRowContext(ctx, `
		SELECT has_website, has_ssl, has_chat_widget, chat_provider,
		       has_contact_form, has_whatsapp_button,
		       has_facebook, facebook_url, has_instagram, instagram_url, has_linkedin, linkedin_url,
		       has_google_analytics, has_google_tag_manager, has_facebook_pixel,
		       has_crm_forms, crm_provider, has_blog
		FROM tech_signals
		WHERE lead_id = ?
	`, leadID).Scan(
		&s.HasWebsite, &s.HasSSL, &s.HasChatWidget, &s.ChatProvider,
		&s.HasContactForm, &s.HasWhatsAppButton,
		&s.HasFacebook, &s.FacebookURL, &s.HasInstagram, &s.InstagramURL, &s.HasLinkedIn, &s.LinkedInURL,
		&s.HasGoogleAnalytics, &s.HasGoogleTagManager, &s.HasFacebookPixel,
		&s.HasCRMForms, &s.CRMProvider, &s.HasBlog,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signals: %w", err)
	}

	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Address, &l.City, &l.Province, &l.Phone,
		&l.Website, &l.Email, &l.WhatsApp, &l.GmbURL, &l.PlaceID,
		&l.Rating, &l.ReviewsCount, &l.PhotosCount,
		&l.OpportunityScore, &l.IsAnalyzed, &l.IsExported, &l.GHLContactID,
		&l.CreatedAt, &l.UpdatedAt, &l.AnalyzedAt, &l.ExportedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
