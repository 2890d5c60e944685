package port

import (
	"context"

	"Warfront/internal/match/entity"
)

type MatchRepository interface {
	SaveMatch(ctx context.Context, rec *entity.MatchRecord) error
	// ListMatches 按结束时间倒序，limit<=0 时返回全部。
	ListMatches(ctx context.Context, limit int) ([]*entity.MatchRecord, error)
}
