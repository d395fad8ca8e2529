package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/aicodepro/landing-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Name() string {
	return "postgres"
}

func (r *LeadRepository) UpsertLead(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, email, phone, is_programmer, utm_source, utm_medium, utm_campaign, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			phone = EXCLUDED.phone,
			is_programmer = EXCLUDED.is_programmer,
			utm_source = EXCLUDED.utm_source,
			utm_medium = EXCLUDED.utm_medium,
			utm_campaign = EXCLUDED.utm_campaign,
			ip_address = COALESCE(EXCLUDED.ip_address, leads.ip_address),
			user_agent = COALESCE(EXCLUDED.user_agent, leads.user_agent),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		lead.Phone,
		lead.IsProgrammer,
		lead.UTMSource,
		lead.UTMMedium,
		lead.UTMCampaign,
		nullString(lead.IPAddress),
		nullString(lead.UserAgent),
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("postgres upsert failed (code %s): %s", pqErr.Code, pqErr.Message)
		}
		return err
	}

	return nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `
		SELECT id, email, phone, is_programmer, utm_source, utm_medium, utm_campaign,
		       COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at
		FROM leads
		WHERE email = $1
	`

	var lead entity.Lead
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&lead.ID,
		&lead.Email,
		&lead.Phone,
		&lead.IsProgrammer,
		&lead.UTMSource,
		&lead.UTMMedium,
		&lead.UTMCampaign,
		&lead.IPAddress,
		&lead.UserAgent,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
