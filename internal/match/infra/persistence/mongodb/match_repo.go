package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Warfront/internal/match/entity"
	"Warfront/internal/match/infra/persistence/model"
)

const defaultCollectionName = "match_record"

var errNilCollection = errors.New("mongodb match collection is nil")

type MatchRepository struct {
	coll *mongo.Collection
}

func NewMatchRepository(db *mongo.Database) *MatchRepository {
	return &MatchRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *MatchRepository) SaveMatch(ctx context.Context, rec *entity.MatchRecord) error {
	if rec == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errNilCollection
	}

	doc := model.RecordToDoc(rec)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.SessionID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *MatchRepository) ListMatches(ctx context.Context, limit int) ([]*entity.MatchRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errNilCollection
	}

	opts := options.Find().SetSort(bson.D{{Key: "ended_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []model.MatchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.MatchRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, model.DocToRecord(doc))
	}
	return out, nil
}
