package store

import (
	"context"
	"time"

	"github.com/novaninjas/jobsync/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Every job reports as newly
// added and nothing is persisted.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) UpsertJob(ctx context.Context, job model.Job) (bool, error) { return true, nil }
func (s *NopStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}
func (s *NopStore) UpsertSyncStatus(ctx context.Context, status model.SyncStatus) error { return nil }
