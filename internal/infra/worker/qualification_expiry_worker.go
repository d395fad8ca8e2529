package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// QualificationExpiryWorker sweeps stale partial_qualifications rows. The
// session id is client-generated and never reused, so anything older than
// the TTL can only belong to an abandoned funnel.
type QualificationExpiryWorker struct {
	db           *sql.DB
	ttl          time.Duration
	tickInterval time.Duration
}

func NewQualificationExpiryWorker(db *sql.DB, ttl time.Duration) *QualificationExpiryWorker {
	return &QualificationExpiryWorker{
		db:           db,
		ttl:          ttl,
		tickInterval: 10 * time.Minute,
	}
}

func (w *QualificationExpiryWorker) Start(ctx context.Context) {
	log.Printf("🕒 qualification expiry worker started (ttl=%s)", w.ttl)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("qualification expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *QualificationExpiryWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.ttl)

	res, err := w.db.ExecContext(ctx,
		`DELETE FROM partial_qualifications WHERE captured_at < $1`, cutoff)
	if err != nil {
		log.Printf("❌ qualification sweep failed: %v", err)
		return
	}

	if evicted, err := res.RowsAffected(); err == nil && evicted > 0 {
		log.Printf("✅ evicted %d stale qualification(s)", evicted)
	}
}
