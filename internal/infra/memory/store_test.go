package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aicodepro/landing-api/internal/entity"
)

func TestUpsertLeadDeduplicatesByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)

	first := &entity.Lead{ID: "id-1", Email: "a@x.com", Phone: "111", CreatedAt: time.Now()}
	assert.NoError(t, store.UpsertLead(ctx, first))

	second := &entity.Lead{ID: "id-2", Email: "a@x.com", Phone: "222", CreatedAt: time.Now()}
	assert.NoError(t, store.UpsertLead(ctx, second))

	assert.Equal(t, 1, store.LeadCount())

	lead, ok := store.FindLeadByEmail("a@x.com")
	assert.True(t, ok)
	assert.Equal(t, "222", lead.Phone)
	// Upsert keeps the original identity and creation time.
	assert.Equal(t, "id-1", lead.ID)
	assert.Equal(t, "id-1", second.ID)
}

func TestFindBySessionNotFound(t *testing.T) {
	store := NewStore(0)

	_, err := store.FindBySession(context.Background(), "nope")

	assert.ErrorIs(t, err, entity.ErrQualificationNotFound)
}

func TestQualificationOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)

	assert.NoError(t, store.UpsertQualification(ctx, &entity.PartialQualification{
		SessionID: "s1", IsProgrammer: true, CapturedAt: time.Now(),
	}))
	assert.NoError(t, store.UpsertQualification(ctx, &entity.PartialQualification{
		SessionID: "s1", IsProgrammer: false, CapturedAt: time.Now(),
	}))

	q, err := store.FindBySession(ctx, "s1")
	assert.NoError(t, err)
	assert.False(t, q.IsProgrammer)
}

func TestQualificationTTLEviction(t *testing.T) {
	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	assert.NoError(t, store.UpsertQualification(ctx, &entity.PartialQualification{
		SessionID: "s1", IsProgrammer: true, CapturedAt: time.Now(),
	}))

	q, err := store.FindBySession(ctx, "s1")
	assert.NoError(t, err)
	assert.True(t, q.IsProgrammer)

	time.Sleep(25 * time.Millisecond)

	_, err = store.FindBySession(ctx, "s1")
	assert.ErrorIs(t, err, entity.ErrQualificationNotFound)
}
