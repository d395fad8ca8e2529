package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aicodepro/landing-api/internal/entity"
	"github.com/aicodepro/landing-api/internal/infra/memory"
	"github.com/aicodepro/landing-api/internal/usecase"
)

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
	name string
}

func (m *MockLeadStore) Name() string {
	return m.name
}

func (m *MockLeadStore) UpsertLead(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockQualificationStore
type MockQualificationStore struct {
	mock.Mock
}

func (m *MockQualificationStore) UpsertQualification(ctx context.Context, q *entity.PartialQualification) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQualificationStore) FindBySession(ctx context.Context, sessionID string) (*entity.PartialQualification, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PartialQualification), args.Error(1)
}

// MockBackupStore
type MockBackupStore struct {
	mock.Mock
}

func (m *MockBackupStore) Append(rec entity.FallbackRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockBackupStore) ReadAll() ([]entity.FallbackRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FallbackRecord), args.Error(1)
}

func validInput() usecase.SubmitLeadInput {
	return usecase.SubmitLeadInput{
		Email: "a@x.com",
		Phone: "11999990000",
	}
}

func TestSubmitLeadQualificationOverridesFormFlag(t *testing.T) {
	ctx := context.Background()

	mockQual := new(MockQualificationStore)
	mockQual.On("FindBySession", mock.Anything, "s1").Return(&entity.PartialQualification{
		SessionID:    "s1",
		IsProgrammer: true,
		CapturedAt:   time.Now(),
	}, nil)

	var captured *entity.Lead
	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*entity.Lead)
	}).Return(nil)

	mockBackup := new(MockBackupStore)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, mockQual, mockBackup, nil)

	input := validInput()
	input.SessionID = "s1"
	input.IsProgrammer = false // disagrees with the click; the click wins

	output, err := uc.Execute(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.False(t, output.UsedFallback)
	assert.Equal(t, "postgres", output.Backend)
	assert.NotNil(t, captured)
	assert.True(t, captured.IsProgrammer)
	mockBackup.AssertNotCalled(t, "Append", mock.Anything)
}

func TestSubmitLeadFormFlagWhenSessionUnknown(t *testing.T) {
	ctx := context.Background()

	mockQual := new(MockQualificationStore)
	mockQual.On("FindBySession", mock.Anything, "ghost").Return(nil, entity.ErrQualificationNotFound)

	var captured *entity.Lead
	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*entity.Lead)
	}).Return(nil)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, mockQual, new(MockBackupStore), nil)

	input := validInput()
	input.SessionID = "ghost"
	input.IsProgrammer = true

	_, err := uc.Execute(ctx, input)

	assert.NoError(t, err)
	assert.True(t, captured.IsProgrammer)
}

func TestSubmitLeadNoSessionSkipsLookup(t *testing.T) {
	ctx := context.Background()

	mockQual := new(MockQualificationStore)
	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, mockQual, new(MockBackupStore), nil)

	_, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	mockQual.AssertNotCalled(t, "FindBySession", mock.Anything, mock.Anything)
}

func TestSubmitLeadValidationError(t *testing.T) {
	ctx := context.Background()

	mockPrimary := &MockLeadStore{name: "postgres"}
	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, new(MockQualificationStore), new(MockBackupStore), nil)

	output, err := uc.Execute(ctx, usecase.SubmitLeadInput{Phone: "11999990000"})

	assert.Nil(t, output)
	assert.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
	mockPrimary.AssertNotCalled(t, "UpsertLead", mock.Anything, mock.Anything)
}

func TestSubmitLeadAttributionSentinels(t *testing.T) {
	ctx := context.Background()

	var captured *entity.Lead
	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*entity.Lead)
	}).Return(nil)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, new(MockQualificationStore), new(MockBackupStore), nil)

	_, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.Equal(t, entity.SourceDirect, captured.UTMSource)
	assert.Equal(t, entity.NotSet, captured.UTMMedium)
	assert.Equal(t, entity.NotSet, captured.UTMCampaign)
}

func TestSubmitLeadSecondaryTakesOver(t *testing.T) {
	ctx := context.Background()

	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	mockSecondary := &MockLeadStore{name: "airtable"}
	mockSecondary.On("UpsertLead", mock.Anything, mock.Anything).Return(nil)

	mockBackup := new(MockBackupStore)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, mockSecondary, new(MockQualificationStore), mockBackup, nil)

	output, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.True(t, output.UsedFallback)
	assert.Equal(t, "airtable", output.Backend)
	mockBackup.AssertNotCalled(t, "Append", mock.Anything)
}

func TestSubmitLeadBackupWhenRemotesFail(t *testing.T) {
	ctx := context.Background()

	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	var rec entity.FallbackRecord
	mockBackup := new(MockBackupStore)
	mockBackup.On("Append", mock.Anything).Run(func(args mock.Arguments) {
		rec = args.Get(0).(entity.FallbackRecord)
	}).Return(nil)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, new(MockQualificationStore), mockBackup, nil)

	output, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.True(t, output.UsedFallback)
	assert.Equal(t, usecase.BackupBackendName, output.Backend)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.Contains(t, rec.Reason, "postgres")
	assert.Contains(t, rec.Reason, "connection refused")
	assert.False(t, rec.BackupTimestamp.IsZero())
}

func TestSubmitLeadPersistenceExhausted(t *testing.T) {
	ctx := context.Background()

	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Return(errors.New("timeout"))

	mockBackup := new(MockBackupStore)
	mockBackup.On("Append", mock.Anything).Return(errors.New("disk full"))

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, new(MockQualificationStore), mockBackup, nil)

	output, err := uc.Execute(ctx, validInput())

	assert.Nil(t, output)
	assert.Error(t, err)
	assert.True(t, usecase.IsPersistenceExhausted(err))
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "disk full")
}

func TestSubmitLeadIdempotentUpsert(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore(0)
	uc := usecase.NewSubmitLeadUseCase(store, nil, store, new(MockBackupStore), nil)

	first := validInput()
	first.UTMCampaign = "spring_launch"
	_, err := uc.Execute(ctx, first)
	assert.NoError(t, err)

	second := validInput()
	second.Phone = "11888880000"
	second.UTMCampaign = "retarget_wave2"
	_, err = uc.Execute(ctx, second)
	assert.NoError(t, err)

	assert.Equal(t, 1, store.LeadCount())

	lead, ok := store.FindLeadByEmail("a@x.com")
	assert.True(t, ok)
	assert.Equal(t, "11888880000", lead.Phone)
	assert.Equal(t, "retarget_wave2", lead.UTMCampaign)
}

func TestSubmitLeadQualificationLookupErrorFallsBack(t *testing.T) {
	ctx := context.Background()

	mockQual := new(MockQualificationStore)
	mockQual.On("FindBySession", mock.Anything, "s9").Return(nil, errors.New("db unreachable"))

	var captured *entity.Lead
	mockPrimary := &MockLeadStore{name: "postgres"}
	mockPrimary.On("UpsertLead", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*entity.Lead)
	}).Return(nil)

	uc := usecase.NewSubmitLeadUseCase(mockPrimary, nil, mockQual, new(MockBackupStore), nil)

	input := validInput()
	input.SessionID = "s9"
	input.IsProgrammer = true

	_, err := uc.Execute(ctx, input)

	assert.NoError(t, err)
	assert.True(t, captured.IsProgrammer)
}
