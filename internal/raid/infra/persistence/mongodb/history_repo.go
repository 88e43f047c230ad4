package mongodb

import (
	"context"
	"errors"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/errs"
	"VillageRaid/internal/raid/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultHistoryCollectionName = "raid_history"

const (
	OpAppendHistory = "repo.history.Append"
	OpListHistory   = "repo.history.List"
)

var errNilCollection = errors.New("mongodb raid_history collection is nil")

type HistoryRepo struct {
	coll *mongo.Collection
}

func NewHistoryRepo(db *mongo.Database) *HistoryRepo {
	if db == nil {
		return &HistoryRepo{}
	}
	return &HistoryRepo{coll: db.Collection(defaultHistoryCollectionName)}
}

// Append 把战报插到最前面，并只保留最近 limit 条。
func (r *HistoryRepo) Append(ctx context.Context, playerID int64, rec app.RaidRecord, limit int) error {
	if r == nil || r.coll == nil {
		return errs.Wrap(OpAppendHistory, errs.KindInfra, errNilCollection, nil)
	}
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": playerID},
		appendUpdate(rec, limit),
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errs.Wrap(OpAppendHistory, errs.KindInfra, err, map[string]any{"player_id": playerID, "raid_id": rec.RaidID})
	}
	return nil
}

func (r *HistoryRepo) List(ctx context.Context, playerID int64, limit int) ([]app.RaidRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errs.Wrap(OpListHistory, errs.KindInfra, errNilCollection, nil)
	}
	var opts *options.FindOneOptionsBuilder
	if limit > 0 {
		opts = options.FindOne().SetProjection(bson.M{"records": bson.M{"$slice": limit}})
	} else {
		opts = options.FindOne()
	}

	var doc model.HistoryDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": playerID}, opts).Decode(&doc)
	switch {
	case err == nil:
		return doc.Records, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return []app.RaidRecord{}, nil
	default:
		return nil, errs.Wrap(OpListHistory, errs.KindInfra, err, map[string]any{"player_id": playerID})
	}
}

func appendUpdate(rec app.RaidRecord, limit int) bson.M {
	push := bson.M{
		"$each":     bson.A{rec},
		"$position": 0,
	}
	if limit > 0 {
		push["$slice"] = limit
	}
	return bson.M{"$push": bson.M{"records": push}}
}
