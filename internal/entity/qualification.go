package entity

import (
	"context"
	"time"
)

// PartialQualification is the answer to the "do you already program?" step,
// captured before the visitor hands over contact details. It is keyed by the
// client-generated session id and read back (never deleted) at submit time.
type PartialQualification struct {
	SessionID    string    `json:"session_id"`
	IsProgrammer bool      `json:"is_programmer"`
	UTMSource    string    `json:"utm_source"`
	UTMMedium    string    `json:"utm_medium"`
	UTMCampaign  string    `json:"utm_campaign"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CapturedAt   time.Time `json:"captured_at"`
}

type QualificationStore interface {
	// UpsertQualification overwrites on repeated session ids, last write wins.
	UpsertQualification(ctx context.Context, q *PartialQualification) error
	// FindBySession returns ErrQualificationNotFound when the session was
	// never recorded (or already evicted).
	FindBySession(ctx context.Context, sessionID string) (*PartialQualification, error)
}
