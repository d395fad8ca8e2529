package entity

import (
	"context"
	"errors"
	"time"
)

// Sentinel attribution values. Downstream tables expect non-null strings,
// so missing UTM params are normalized before persistence.
const (
	SourceDirect = "direct"
	NotSet       = "not_set"
)

type Lead struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	IsProgrammer bool      `json:"is_programmer"`
	UTMSource    string    `json:"utm_source"`
	UTMMedium    string    `json:"utm_medium"`
	UTMCampaign  string    `json:"utm_campaign"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FallbackRecord is a Lead that landed in the local backup file because
// every remote store refused the write.
type FallbackRecord struct {
	Lead
	Reason          string    `json:"reason"`
	BackupTimestamp time.Time `json:"backup_timestamp"`
}

var ErrQualificationNotFound = errors.New("partial qualification not found")

// LeadStore is the single contract every backend implements. Email is the
// conflict key: a second write for the same email updates the existing row.
type LeadStore interface {
	Name() string
	UpsertLead(ctx context.Context, lead *Lead) error
}

type BackupStore interface {
	Append(rec FallbackRecord) error
	ReadAll() ([]FallbackRecord, error)
}
