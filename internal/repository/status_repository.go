package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/status"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
)

const statusCollection = "status_updates"

type MongoStatusRepository struct {
	db *database.Mongo
}

func NewStatusRepository(db *database.Mongo) StatusRepository {
	return &MongoStatusRepository{db: db}
}

func (r *MongoStatusRepository) collection() (*mongo.Collection, error) {
	db, err := r.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(statusCollection), nil
}

func (r *MongoStatusRepository) PushItem(ctx context.Context, waID, name string, item status.Item) (status.Collection, error) {
	coll, err := r.collection()
	if err != nil {
		return status.Collection{}, err
	}

	// Single-document atomic push keeps concurrent posts for the same
	// contact from losing items.
	update := bson.M{
		"$setOnInsert": bson.M{"wa_id": waID, "name": name},
		"$push":        bson.M{"items": item},
		"$set":         bson.M{"lastUpdated": item.Timestamp},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc status.Collection
	if err := coll.FindOneAndUpdate(ctx, bson.M{"wa_id": waID}, update, opts).Decode(&doc); err != nil {
		return status.Collection{}, fmt.Errorf("push status item for %s: %w", waID, err)
	}
	return doc, nil
}

func (r *MongoStatusRepository) ListAll(ctx context.Context) ([]status.Collection, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list status collections: %w", err)
	}
	docs := []status.Collection{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode status collections: %w", err)
	}
	return docs, nil
}

func (r *MongoStatusRepository) PullItem(ctx context.Context, waID, itemID string) (status.Collection, error) {
	coll, err := r.collection()
	if err != nil {
		return status.Collection{}, err
	}
	update := bson.M{"$pull": bson.M{"items": bson.M{"id": itemID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc status.Collection
	if err := coll.FindOneAndUpdate(ctx, bson.M{"wa_id": waID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return status.Collection{}, whatsapp_errors.ErrNotFound
		}
		return status.Collection{}, fmt.Errorf("pull status item %s for %s: %w", itemID, waID, err)
	}
	return doc, nil
}

func (r *MongoStatusRepository) DeleteCollection(ctx context.Context, waID string) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"wa_id": waID})
	if err != nil {
		return 0, fmt.Errorf("delete status collection %s: %w", waID, err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the indexes status reads rely on.
func (r *MongoStatusRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "wa_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "lastUpdated", Value: -1}}},
	})
	return err
}
