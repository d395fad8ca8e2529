package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aicodepro/landing-api/internal/entity"
)

// Store implements both store contracts in memory. Used as the primary in
// dev mode (PRIMARY_BACKEND=memory) and as a stand-in in tests. Nothing
// survives a restart.
type Store struct {
	mu             sync.RWMutex
	leads          map[string]entity.Lead                 // keyed by email
	qualifications map[string]entity.PartialQualification // keyed by session id
	ttl            time.Duration                          // 0 means qualifications never expire
}

func NewStore(qualificationTTL time.Duration) *Store {
	return &Store{
		leads:          make(map[string]entity.Lead),
		qualifications: make(map[string]entity.PartialQualification),
		ttl:            qualificationTTL,
	}
}

func (s *Store) Name() string {
	return "memory"
}

func (s *Store) UpsertLead(ctx context.Context, lead *entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.leads[lead.Email]; ok {
		lead.ID = existing.ID
		lead.CreatedAt = existing.CreatedAt
	}
	lead.UpdatedAt = time.Now()
	s.leads[lead.Email] = *lead

	return nil
}

func (s *Store) FindLeadByEmail(email string) (*entity.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[email]
	if !ok {
		return nil, false
	}
	return &lead, true
}

func (s *Store) LeadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.leads)
}

func (s *Store) UpsertQualification(ctx context.Context, q *entity.PartialQualification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.qualifications[q.SessionID] = *q

	return nil
}

// FindBySession evicts lazily: a stale qualification reads as not found.
func (s *Store) FindBySession(ctx context.Context, sessionID string) (*entity.PartialQualification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.qualifications[sessionID]
	if !ok {
		return nil, entity.ErrQualificationNotFound
	}

	if s.ttl > 0 && time.Since(q.CapturedAt) > s.ttl {
		delete(s.qualifications, sessionID)
		return nil, entity.ErrQualificationNotFound
	}

	return &q, nil
}
