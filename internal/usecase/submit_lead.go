package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aicodepro/landing-api/internal/entity"
	"github.com/aicodepro/landing-api/internal/infra/queue"
)

// Single attempt per backend, a few seconds each. This is a best-effort
// capture pipeline, not guaranteed delivery.
const backendTimeout = 3 * time.Second

const BackupBackendName = "local_backup"

func NewSubmitLeadUseCase(
	primary entity.LeadStore,
	secondary entity.LeadStore,
	qualifications entity.QualificationStore,
	backup entity.BackupStore,
	producer QueueProducerInterface,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Primary:        primary,
		Secondary:      secondary,
		Qualifications: qualifications,
		Backup:         backup,
		Producer:       producer,
	}
}

type SubmitLeadUseCase struct {
	Primary        entity.LeadStore
	Secondary      entity.LeadStore // optional, nil when only one remote is configured
	Qualifications entity.QualificationStore
	Backup         entity.BackupStore
	Producer       QueueProducerInterface
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	validationErrors := ValidateSubmitLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: strings.TrimSuffix(errMsg, ", "),
		}
	}

	cid := input.CorrelationID
	if cid == "" {
		cid = uuid.New().String()
	}

	lead := uc.buildLead(ctx, input, cid)

	// Fallback chain: primary, then the secondary row store when configured.
	stores := []entity.LeadStore{uc.Primary}
	if uc.Secondary != nil {
		stores = append(stores, uc.Secondary)
	}

	var remoteErrs []string
	for i, store := range stores {
		err := uc.upsertWithTimeout(ctx, store, lead)
		if err == nil {
			usedFallback := i > 0
			log.Printf("[%s] lead persisted: email=%s backend=%s is_programmer=%v used_fallback=%v",
				cid, lead.Email, store.Name(), lead.IsProgrammer, usedFallback)

			uc.notifyCaptured(lead, store.Name(), usedFallback)

			return &SubmitLeadOutput{
				LeadID:       lead.ID,
				UsedFallback: usedFallback,
				Backend:      store.Name(),
			}, nil
		}

		storageErr := &StorageError{Backend: store.Name(), Cause: err}
		remoteErrs = append(remoteErrs, storageErr.Error())
		log.Printf("[%s] lead write failed, advancing chain: %v", cid, storageErr)
	}

	// Every remote store refused the write. Last resort: the local file.
	reason := strings.Join(remoteErrs, "; ")
	rec := entity.FallbackRecord{
		Lead:            *lead,
		Reason:          reason,
		BackupTimestamp: time.Now(),
	}

	if err := uc.Backup.Append(rec); err != nil {
		log.Printf("[%s] CRITICAL: lead at risk of loss, backup append failed: email=%s err=%v",
			cid, lead.Email, err)
		return nil, &PersistenceExhaustedError{
			RemoteErr: reason,
			BackupErr: err.Error(),
		}
	}

	log.Printf("[%s] lead persisted to local backup: email=%s reason=%q", cid, lead.Email, reason)

	uc.notifyCaptured(lead, BackupBackendName, true)

	return &SubmitLeadOutput{
		LeadID:       lead.ID,
		UsedFallback: true,
		Backend:      BackupBackendName,
	}, nil
}

// buildLead reconciles the partial qualification with the form submission.
// The qualification click is authoritative: it was captured at the moment of
// the visitor's explicit choice. The form flag is only a fallback.
func (uc *SubmitLeadUseCase) buildLead(ctx context.Context, input SubmitLeadInput, cid string) *entity.Lead {
	isProgrammer := input.IsProgrammer
	source := "form"

	if input.SessionID != "" {
		lookupCtx, cancel := context.WithTimeout(ctx, backendTimeout)
		q, err := uc.Qualifications.FindBySession(lookupCtx, input.SessionID)
		cancel()

		switch {
		case err == nil:
			isProgrammer = q.IsProgrammer
			source = "qualification"

			// The qualification beacon usually carries the attribution the
			// visitor arrived with; inherit it when the form didn't.
			if input.UTMSource == "" {
				input.UTMSource = q.UTMSource
			}
			if input.UTMMedium == "" {
				input.UTMMedium = q.UTMMedium
			}
			if input.UTMCampaign == "" {
				input.UTMCampaign = q.UTMCampaign
			}
		case errors.Is(err, entity.ErrQualificationNotFound):
			// Race between the qualification click and a fast submit, or the
			// record expired. Accepted: the form flag stands in.
		default:
			log.Printf("[%s] qualification lookup failed, using form flag: session=%s err=%v",
				cid, input.SessionID, err)
		}
	}

	log.Printf("[%s] resolved is_programmer=%v source=%s session=%q", cid, isProgrammer, source, input.SessionID)

	now := time.Now()
	return &entity.Lead{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		IsProgrammer: isProgrammer,
		UTMSource:    defaultString(input.UTMSource, entity.SourceDirect),
		UTMMedium:    defaultString(input.UTMMedium, entity.NotSet),
		UTMCampaign:  defaultString(input.UTMCampaign, entity.NotSet),
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (uc *SubmitLeadUseCase) upsertWithTimeout(ctx context.Context, store entity.LeadStore, lead *entity.Lead) error {
	writeCtx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()

	return store.UpsertLead(writeCtx, lead)
}

// notifyCaptured publishes the capture event at most once, without blocking
// the response. Losing a notification loses an email, not a lead.
func (uc *SubmitLeadUseCase) notifyCaptured(lead *entity.Lead, backend string, usedFallback bool) {
	if uc.Producer == nil {
		return
	}

	payload := queue.LeadCapturedPayload{
		LeadID:       lead.ID,
		Email:        lead.Email,
		Phone:        lead.Phone,
		IsProgrammer: lead.IsProgrammer,
		UTMSource:    lead.UTMSource,
		UTMMedium:    lead.UTMMedium,
		UTMCampaign:  lead.UTMCampaign,
		Backend:      backend,
		UsedFallback: usedFallback,
		CapturedAt:   lead.CreatedAt.Format(time.RFC3339),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()

		if err := uc.Producer.PublishLeadCaptured(ctx, payload); err != nil {
			log.Printf("lead captured event dropped: email=%s err=%v", lead.Email, err)
		}
	}()
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
