package memory

import (
	"context"
	"sort"
	"sync"

	"Warfront/internal/match/entity"
)

// MatchRepository 进程内归档，默认驱动与测试使用。
type MatchRepository struct {
	mu      sync.RWMutex
	records map[entity.SessionID]*entity.MatchRecord
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{records: make(map[entity.SessionID]*entity.MatchRecord)}
}

func (r *MatchRepository) SaveMatch(ctx context.Context, rec *entity.MatchRecord) error {
	_ = ctx
	if rec == nil {
		return nil
	}
	cp := *rec
	cp.Players = append([]entity.RecordPlayer(nil), rec.Players...)

	r.mu.Lock()
	r.records[rec.SessionID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *MatchRepository) ListMatches(ctx context.Context, limit int) ([]*entity.MatchRecord, error) {
	_ = ctx
	r.mu.RLock()
	out := make([]*entity.MatchRecord, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].EndedAt.Equal(out[j].EndedAt) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].EndedAt.After(out[j].EndedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
