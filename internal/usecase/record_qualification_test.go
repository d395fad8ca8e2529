package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aicodepro/landing-api/internal/entity"
	"github.com/aicodepro/landing-api/internal/infra/memory"
	"github.com/aicodepro/landing-api/internal/usecase"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestRecordQualificationRequiresSession(t *testing.T) {
	uc := usecase.NewRecordQualificationUseCase(new(MockQualificationStore))

	err := uc.Execute(context.Background(), usecase.RecordQualificationInput{
		IsProgrammer: boolPtr(true),
	})

	assert.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
}

func TestRecordQualificationRequiresDefiniteAnswer(t *testing.T) {
	mockStore := new(MockQualificationStore)
	uc := usecase.NewRecordQualificationUseCase(mockStore)

	err := uc.Execute(context.Background(), usecase.RecordQualificationInput{
		SessionID: "s1",
	})

	assert.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
	mockStore.AssertNotCalled(t, "UpsertQualification", mock.Anything, mock.Anything)
}

func TestRecordQualificationSwallowsStorageFailure(t *testing.T) {
	mockStore := new(MockQualificationStore)
	mockStore.On("UpsertQualification", mock.Anything, mock.Anything).Return(errors.New("db down"))

	uc := usecase.NewRecordQualificationUseCase(mockStore)

	err := uc.Execute(context.Background(), usecase.RecordQualificationInput{
		SessionID:    "s1",
		IsProgrammer: boolPtr(true),
	})

	// Best-effort capture: the caller still sees success.
	assert.NoError(t, err)
	mockStore.AssertCalled(t, "UpsertQualification", mock.Anything, mock.Anything)
}

func TestRecordQualificationLastWriteWins(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore(0)
	uc := usecase.NewRecordQualificationUseCase(store)

	err := uc.Execute(ctx, usecase.RecordQualificationInput{
		SessionID:    "s2",
		IsProgrammer: boolPtr(true),
	})
	assert.NoError(t, err)

	err = uc.Execute(ctx, usecase.RecordQualificationInput{
		SessionID:    "s2",
		IsProgrammer: boolPtr(false),
	})
	assert.NoError(t, err)

	q, err := store.FindBySession(ctx, "s2")
	assert.NoError(t, err)
	assert.False(t, q.IsProgrammer)
}

func TestRecordQualificationAttributionSentinels(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore(0)
	uc := usecase.NewRecordQualificationUseCase(store)

	err := uc.Execute(ctx, usecase.RecordQualificationInput{
		SessionID:    "s3",
		IsProgrammer: boolPtr(true),
		UTMSource:    "instagram",
	})
	assert.NoError(t, err)

	q, err := store.FindBySession(ctx, "s3")
	assert.NoError(t, err)
	assert.Equal(t, "instagram", q.UTMSource)
	assert.Equal(t, entity.NotSet, q.UTMMedium)
	assert.Equal(t, entity.NotSet, q.UTMCampaign)
	assert.False(t, q.CapturedAt.IsZero())
}
