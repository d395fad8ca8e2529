package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aicodepro/landing-api/internal/entity"
)

func NewRecordQualificationUseCase(store entity.QualificationStore) *RecordQualificationUseCase {
	return &RecordQualificationUseCase{Store: store}
}

type RecordQualificationUseCase struct {
	Store entity.QualificationStore
}

// Execute captures the qualification click. Storage failures are logged and
// swallowed: this step must never block the visitor, and the submit flow has
// the form flag to fall back on.
func (uc *RecordQualificationUseCase) Execute(ctx context.Context, input RecordQualificationInput) error {
	validationErrors := ValidateRecordQualificationInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: strings.TrimSuffix(errMsg, ", "),
		}
	}

	q := &entity.PartialQualification{
		SessionID:    strings.TrimSpace(input.SessionID),
		IsProgrammer: *input.IsProgrammer,
		UTMSource:    defaultString(input.UTMSource, entity.SourceDirect),
		UTMMedium:    defaultString(input.UTMMedium, entity.NotSet),
		UTMCampaign:  defaultString(input.UTMCampaign, entity.NotSet),
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		CapturedAt:   time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()

	if err := uc.Store.UpsertQualification(writeCtx, q); err != nil {
		log.Printf("[%s] qualification capture dropped: session=%s err=%v",
			input.CorrelationID, q.SessionID, err)
	}

	return nil
}
