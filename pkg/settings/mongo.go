package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/meower-media/notifications/pkg/meowid"
	"github.com/meower-media/notifications/pkg/notifications"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository keeps one settings document per user.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetOrCreate(ctx context.Context, userId string) (*notifications.Settings, error) {
	s, err := r.getOrCreate(ctx, userId)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the insert race against another instance, the document exists now.
		s, err = r.getOrCreate(ctx, userId)
	}
	if err != nil {
		sentry.CaptureException(err)
		return nil, fmt.Errorf("get or create settings for %s: %w", userId, err)
	}
	return s, nil
}

func (r *MongoRepository) getOrCreate(ctx context.Context, userId string) (*notifications.Settings, error) {
	defaults := notifications.DefaultSettings(meowid.GenId(), userId)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc settingsDoc
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userId},
		bson.M{"$setOnInsert": defaultsDoc(defaults)},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc.toSettings(), nil
}

func (r *MongoRepository) Update(ctx context.Context, settingsId int64, p notifications.Patch) (*notifications.Settings, error) {
	set, unset := updateSet(p)
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var doc settingsDoc
	var err error
	if len(update) == 0 {
		err = r.col.FindOne(ctx, bson.M{"_id": settingsId}).Decode(&doc)
	} else {
		err = r.col.FindOneAndUpdate(
			ctx,
			bson.M{"_id": settingsId},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		sentry.CaptureException(err)
		return nil, fmt.Errorf("update settings %d: %w", settingsId, err)
	}
	return doc.toSettings(), nil
}
