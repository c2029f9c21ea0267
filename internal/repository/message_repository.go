package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
)

const messagesCollection = "processed_messages"

type MongoMessageRepository struct {
	db *database.Mongo
}

func NewMessageRepository(db *database.Mongo) MessageRepository {
	return &MongoMessageRepository{db: db}
}

func (r *MongoMessageRepository) collection() (*mongo.Collection, error) {
	db, err := r.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(messagesCollection), nil
}

func (r *MongoMessageRepository) Create(ctx context.Context, m *message.Message) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return whatsapp_errors.ErrInvalidInput
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) AppendOrSkip(ctx context.Context, m message.Message) (bool, error) {
	coll, err := r.collection()
	if err != nil {
		return false, err
	}

	// Atomic append-if-absent keyed by the caller-supplied id.
	// Creation fields are first-write-wins; later writers may only
	// advance status, which UpdateStatus handles separately.
	res, err := coll.UpdateOne(ctx,
		bson.M{"id": m.ID},
		bson.M{"$setOnInsert": m},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("upsert message %s: %w", m.ID, err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoMessageRepository) GetByID(ctx context.Context, id string) (message.Message, error) {
	coll, err := r.collection()
	if err != nil {
		return message.Message{}, err
	}
	var m message.Message
	filter := bson.M{"$or": bson.A{bson.M{"id": id}, bson.M{"meta_msg_id": id}}}
	if err := coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return message.Message{}, whatsapp_errors.ErrNotFound
		}
		return message.Message{}, fmt.Errorf("find message %s: %w", id, err)
	}
	return m, nil
}

func (r *MongoMessageRepository) UpdateStatus(ctx context.Context, id string, next message.Status) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}

	priors := message.PriorStates(next)
	if len(priors) == 0 {
		return 0, whatsapp_errors.ErrInvalidTransition
	}

	// The status guard in the filter makes the forward-only rule
	// atomic: a concurrent later transition simply leaves no matching
	// document.
	filter := bson.M{
		"$or":    bson.A{bson.M{"id": id}, bson.M{"meta_msg_id": id}},
		"status": bson.M{"$in": priors},
	}
	res, err := coll.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"status": next, "updatedAt": time.Now()},
	})
	if err != nil {
		return 0, fmt.Errorf("update status for %s: %w", id, err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoMessageRepository) ListByContact(ctx context.Context, waID string) ([]message.Message, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx,
		bson.M{"wa_id": waID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages for %s: %w", waID, err)
	}
	messages := []message.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages for %s: %w", waID, err)
	}
	return messages, nil
}

func (r *MongoMessageRepository) DeleteAllForContact(ctx context.Context, waID string) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}
	res, err := coll.DeleteMany(ctx, bson.M{"wa_id": waID})
	if err != nil {
		return 0, fmt.Errorf("delete chat %s: %w", waID, err)
	}
	return res.DeletedCount, nil
}

func (r *MongoMessageRepository) ListChats(ctx context.Context) ([]ChatRow, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	// Group-by-latest: newest message first within each contact, then
	// one row per contact ordered by that message. wa_id ascending
	// breaks timestamp ties deterministically.
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$wa_id"},
			{Key: "lastMessage", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
			{Key: "name", Value: bson.D{{Key: "$first", Value: "$name"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "wa_id", Value: "$_id"},
			{Key: "_id", Value: 0},
			{Key: "lastMessage", Value: 1},
			{Key: "name", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "lastMessage.timestamp", Value: -1},
			{Key: "wa_id", Value: 1},
		}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate chats: %w", err)
	}
	rows := []ChatRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode chat rows: %w", err)
	}
	return rows, nil
}

// EnsureIndexes creates the indexes the message queries rely on:
// unique sparse id, and wa_id+timestamp for conversation reads.
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "meta_msg_id", Value: 1}}},
		{Keys: bson.D{{Key: "wa_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}
