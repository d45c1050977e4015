package repository

import (
	"context"
	"time"

	"vylist-shopify-layer/internal/domain"
	"vylist-shopify-layer/internal/infrastructure/repository/entity"
	"vylist-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCredentialRepository implements CredentialRepository using MongoDB.
type MongoCredentialRepository struct {
	collection *mongo.Collection
}

// NewMongoCredentialRepository creates a new MongoDB credential repository
func NewMongoCredentialRepository(db *mongo.Database) ports.CredentialRepository {
	return &MongoCredentialRepository{
		collection: db.Collection("credentials"),
	}
}

// Put saves or replaces the shop's credential. The upsert is a single
// statement so concurrent installs for the same shop end with exactly one of
// the written tokens, never a merge. installedAt is set only on first insert;
// updatedAt is bumped on every write.
func (r *MongoCredentialRepository) Put(ctx context.Context, cred *domain.Credential) error {
	now := time.Now()
	doc := entity.MongoCredentialDocFromDomain(cred)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shopDomain": cred.ShopDomain}
	update := bson.M{
		"$set": bson.M{
			"accessToken": doc.AccessToken,
			"scopes":      doc.Scopes,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"shopDomain":  doc.ShopDomain,
			"installedAt": now,
		},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return &domain.StorageError{Op: "put credential", Err: err}
	}
	return nil
}

// Get retrieves the shop's credential, or nil when the shop was never
// installed.
func (r *MongoCredentialRepository) Get(ctx context.Context, shopDomain string) (*domain.Credential, error) {
	var doc entity.MongoCredentialDoc
	filter := bson.M{"shopDomain": shopDomain}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get credential", Err: err}
	}

	return doc.ToDomain(), nil
}
