package usecase

import (
	"context"

	"github.com/aicodepro/landing-api/internal/infra/queue"
)

type SubmitLeadInput struct {
	SessionID    string `json:"sessionId"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IsProgrammer bool   `json:"isProgrammer"`

	UTMSource   string `json:"utmSource"`
	UTMMedium   string `json:"utmMedium"`
	UTMCampaign string `json:"utmCampaign"`

	// Filled in by the HTTP layer, not by the form body.
	IPAddress     string `json:"-"`
	UserAgent     string `json:"-"`
	CorrelationID string `json:"-"`
}

type SubmitLeadOutput struct {
	LeadID       string `json:"leadId"`
	UsedFallback bool   `json:"usedFallback"`
	Backend      string `json:"backend"`
}

type RecordQualificationInput struct {
	SessionID    string `json:"sessionId"`
	IsProgrammer *bool  `json:"isProgrammer"`

	UTMSource   string `json:"utmSource"`
	UTMMedium   string `json:"utmMedium"`
	UTMCampaign string `json:"utmCampaign"`

	IPAddress     string `json:"-"`
	UserAgent     string `json:"-"`
	CorrelationID string `json:"-"`
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}
