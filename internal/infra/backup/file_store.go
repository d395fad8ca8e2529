package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aicodepro/landing-api/internal/entity"
)

// FileStore keeps leads in a single human-readable JSON array so an admin
// can inspect or export it when the remote stores were down. Appends rewrite
// the whole file through a temp file + rename, so a failed write can never
// corrupt records that already landed.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(rec entity.FallbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return err
	}

	records = append(records, rec)

	return s.writeLocked(records)
}

// ReadAll returns the full current set on every call, no cursor state.
func (s *FileStore) ReadAll() ([]entity.FallbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readLocked()
}

func (s *FileStore) readLocked() ([]entity.FallbackRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entity.FallbackRecord{}, nil
		}
		return nil, fmt.Errorf("read backup file: %w", err)
	}

	if len(data) == 0 {
		return []entity.FallbackRecord{}, nil
	}

	var records []entity.FallbackRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("backup file corrupted: %w", err)
	}

	return records, nil
}

func (s *FileStore) writeLocked(records []entity.FallbackRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup records: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".leads-backup-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp backup file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp backup file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp backup file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace backup file: %w", err)
	}

	return nil
}
