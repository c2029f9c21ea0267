package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/contact"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
)

const contactsCollection = "users"

type MongoContactRepository struct {
	db *database.Mongo
}

func NewContactRepository(db *database.Mongo) ContactRepository {
	return &MongoContactRepository{db: db}
}

func (r *MongoContactRepository) collection() (*mongo.Collection, error) {
	db, err := r.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(contactsCollection), nil
}

func (r *MongoContactRepository) Merge(ctx context.Context, c contact.Contact) (contact.Contact, bool, error) {
	coll, err := r.collection()
	if err != nil {
		return contact.Contact{}, false, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if c.Name != "" {
		set["name"] = c.Name
	}
	if c.ProfilePic != "" {
		set["profilePic"] = c.ProfilePic
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)
	update := bson.M{
		"$setOnInsert": bson.M{"wa_id": c.WaID},
		"$set":         set,
	}

	var prior contact.Contact
	err = coll.FindOneAndUpdate(ctx, bson.M{"wa_id": c.WaID}, update, opts).Decode(&prior)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Fresh entry: everything supplied counts as a change.
			created := contact.Contact{WaID: c.WaID, Name: c.Name, ProfilePic: c.ProfilePic}
			return created, c.Name != "" || c.ProfilePic != "", nil
		}
		return contact.Contact{}, false, fmt.Errorf("merge contact %s: %w", c.WaID, err)
	}

	after := prior
	changed := after.Merge(c.Name, c.ProfilePic)
	return after, changed, nil
}

func (r *MongoContactRepository) Get(ctx context.Context, waID string) (contact.Contact, error) {
	coll, err := r.collection()
	if err != nil {
		return contact.Contact{}, err
	}
	var c contact.Contact
	if err := coll.FindOne(ctx, bson.M{"wa_id": waID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, whatsapp_errors.ErrNotFound
		}
		return contact.Contact{}, fmt.Errorf("find contact %s: %w", waID, err)
	}
	return c, nil
}

func (r *MongoContactRepository) GetMany(ctx context.Context, waIDs []string) (map[string]contact.Contact, error) {
	result := make(map[string]contact.Contact, len(waIDs))
	if len(waIDs) == 0 {
		return result, nil
	}
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, bson.M{"wa_id": bson.M{"$in": waIDs}})
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	var contacts []contact.Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	for _, c := range contacts {
		result[c.WaID] = c
	}
	return result, nil
}

func (r *MongoContactRepository) SetAvatar(ctx context.Context, waID, name, profilePic string) (contact.Contact, error) {
	coll, err := r.collection()
	if err != nil {
		return contact.Contact{}, err
	}
	set := bson.M{"profilePic": profilePic, "updatedAt": time.Now()}
	if name != "" {
		set["name"] = name
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{"wa_id": waID}, "$set": set}

	var c contact.Contact
	if err := coll.FindOneAndUpdate(ctx, bson.M{"wa_id": waID}, update, opts).Decode(&c); err != nil {
		return contact.Contact{}, fmt.Errorf("set avatar for %s: %w", waID, err)
	}
	return c, nil
}

func (r *MongoContactRepository) ClearAvatar(ctx context.Context, waID string) (contact.Contact, error) {
	coll, err := r.collection()
	if err != nil {
		return contact.Contact{}, err
	}
	// The entry is kept; only the avatar is blanked.
	update := bson.M{"$set": bson.M{"profilePic": "", "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c contact.Contact
	if err := coll.FindOneAndUpdate(ctx, bson.M{"wa_id": waID}, update, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return contact.Contact{}, whatsapp_errors.ErrNotFound
		}
		return contact.Contact{}, fmt.Errorf("clear avatar for %s: %w", waID, err)
	}
	return c, nil
}

// EnsureIndexes creates the unique wa_id index for the directory.
func (r *MongoContactRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "wa_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
