package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aicodepro/landing-api/internal/entity"
)

type QualificationRepository struct {
	DB *sql.DB
}

func NewQualificationRepository(db *sql.DB) *QualificationRepository {
	return &QualificationRepository{DB: db}
}

func (r *QualificationRepository) UpsertQualification(ctx context.Context, q *entity.PartialQualification) error {
	query := `
		INSERT INTO partial_qualifications (session_id, is_programmer, utm_source, utm_medium, utm_campaign, ip_address, user_agent, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			is_programmer = EXCLUDED.is_programmer,
			utm_source = EXCLUDED.utm_source,
			utm_medium = EXCLUDED.utm_medium,
			utm_campaign = EXCLUDED.utm_campaign,
			captured_at = NOW()
		RETURNING captured_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		q.SessionID,
		q.IsProgrammer,
		q.UTMSource,
		q.UTMMedium,
		q.UTMCampaign,
		nullString(q.IPAddress),
		nullString(q.UserAgent),
	).Scan(&q.CapturedAt)
}

func (r *QualificationRepository) FindBySession(ctx context.Context, sessionID string) (*entity.PartialQualification, error) {
	query := `
		SELECT session_id, is_programmer, utm_source, utm_medium, utm_campaign,
		       COALESCE(ip_address, ''), COALESCE(user_agent, ''), captured_at
		FROM partial_qualifications
		WHERE session_id = $1
	`

	var q entity.PartialQualification
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&q.SessionID,
		&q.IsProgrammer,
		&q.UTMSource,
		&q.UTMMedium,
		&q.UTMCampaign,
		&q.IPAddress,
		&q.UserAgent,
		&q.CapturedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrQualificationNotFound
		}
		return nil, err
	}

	return &q, nil
}
