package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SavedColName = "saved_resources"

type SavedItem struct {
	ResourceRef `bson:",inline"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

// SavedResources is one document per user holding every resource they bookmarked.
type SavedResources struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    string               `bson:"user_id" json:"user_id" validate:"required"`
	Items     map[string]SavedItem `bson:"items" json:"items"`
	CreatedAt time.Time            `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type FavouriteRepo interface {
	SaveResource(ctx context.Context, userID uuid.UUID, ref ResourceRef) (*SavedResources, error)
	UnsaveResource(ctx context.Context, userID uuid.UUID, ref ResourceRef) error
	GetSavedResources(ctx context.Context, userID uuid.UUID) (*SavedResources, error)
}

func savedKey(ref ResourceRef) string {
	return fmt.Sprintf("items.%s_%s", ref.Type, ref.ID)
}

func (mdb *MongodbRepo) collection() *mongo.Collection {
	return mdb.mongodbClient.Database(mdb.database).Collection(SavedColName)
}

func (mdb *MongodbRepo) SaveResource(ctx context.Context, userID uuid.UUID, ref ResourceRef) (*SavedResources, error) {
	now := time.Now().UTC()
	filter := bson.M{"user_id": userID.String()}
	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			savedKey(ref): SavedItem{ResourceRef: ref, AddedAt: now},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID.String(),
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result SavedResources
	if err := mdb.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error upserting saved resource: %w", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) UnsaveResource(ctx context.Context, userID uuid.UUID, ref ResourceRef) error {
	filter := bson.M{"user_id": userID.String()}
	update := bson.M{
		"$unset": bson.M{savedKey(ref): ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := mdb.collection().UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error removing saved resource: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetSavedResources(ctx context.Context, userID uuid.UUID) (*SavedResources, error) {
	var saved SavedResources
	err := mdb.collection().FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&saved)
	if err == mongo.ErrNoDocuments {
		return &SavedResources{UserID: userID.String(), Items: map[string]SavedItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding saved resources: %w", err)
	}
	if saved.Items == nil {
		saved.Items = map[string]SavedItem{}
	}
	return &saved, nil
}
