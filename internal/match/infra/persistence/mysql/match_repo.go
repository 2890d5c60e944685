package mysql

import (
	"context"

	"gorm.io/gorm"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/infra/persistence/model"
	"Warfront/modules/kit/errx"
)

const (
	CodeMatchStore errx.Code = "MATCH_STORE"

	OpSaveMatch   = "repo.match.SaveMatch"
	OpListMatches = "repo.match.ListMatches"
)

type MatchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// AutoMigrate 建表，启动时调用一次。
func (r *MatchRepo) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.Match{})
}

func (r *MatchRepo) SaveMatch(ctx context.Context, rec *entity.MatchRecord) error {
	if rec == nil {
		return nil
	}
	m, err := model.RecordToRow(rec)
	if err != nil {
		return errx.NewSys(CodeMatchStore, OpSaveMatch).WithCause(err)
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return errx.NewSys(CodeMatchStore, OpSaveMatch).
			WithCause(err).
			WithData("session_id", rec.SessionID)
	}
	return nil
}

func (r *MatchRepo) ListMatches(ctx context.Context, limit int) ([]*entity.MatchRecord, error) {
	var rows []model.Match
	q := r.db.WithContext(ctx).Order("ended_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errx.NewSys(CodeMatchStore, OpListMatches).WithCause(err)
	}
	out := make([]*entity.MatchRecord, 0, len(rows))
	for i := range rows {
		rec, err := model.RowToRecord(&rows[i])
		if err != nil {
			return nil, errx.NewSys(CodeMatchStore, OpListMatches).
				WithCause(err).
				WithData("session_id", rows[i].SessionID)
		}
		out = append(out, rec)
	}
	return out, nil
}
