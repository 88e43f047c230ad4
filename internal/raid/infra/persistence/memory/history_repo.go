package memory

import (
	"context"
	"sync"

	"VillageRaid/internal/raid/app"
)

type HistoryRepo struct {
	mu   sync.RWMutex
	byID map[int64][]app.RaidRecord
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{byID: make(map[int64][]app.RaidRecord)}
}

func (r *HistoryRepo) Append(ctx context.Context, playerID int64, rec app.RaidRecord, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := append([]app.RaidRecord{rec}, r.byID[playerID]...)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	r.byID[playerID] = recs
	return nil
}

func (r *HistoryRepo) List(ctx context.Context, playerID int64, limit int) ([]app.RaidRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.byID[playerID]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return append([]app.RaidRecord{}, recs...), nil
}
