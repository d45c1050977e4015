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

// MongoProductRepository implements ProductRepository using MongoDB.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository
func NewMongoProductRepository(db *mongo.Database) ports.ProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
	}
}

// Upsert fully replaces the record under (shopDomain, productId) in a single
// statement. No partial field merge: an existing record is overwritten
// wholesale.
func (r *MongoProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	doc := entity.MongoProductDocFromDomain(product)
	doc.SyncedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{
		"shopDomain": product.ShopDomain,
		"productId":  product.ProductID,
	}

	if _, err := r.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return &domain.StorageError{Op: "upsert product", Err: err}
	}
	return nil
}

// ListByShop returns all cached products for a shop in stable productId
// order. A shop with no synced products yields an empty slice, not an error.
func (r *MongoProductRepository) ListByShop(ctx context.Context, shopDomain string) ([]*domain.Product, error) {
	filter := bson.M{"shopDomain": shopDomain}
	opts := options.Find().SetSort(bson.D{{Key: "productId", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, &domain.StorageError{Op: "list products", Err: err}
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, &domain.StorageError{Op: "decode product", Err: err}
		}
		products = append(products, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list products", Err: err}
	}

	return products, nil
}

// DeleteAbsent removes the shop's products whose IDs were not part of the
// latest sync pass.
func (r *MongoProductRepository) DeleteAbsent(ctx context.Context, shopDomain string, keepIDs []string) (int64, error) {
	// A nil slice marshals as BSON null, which $nin rejects.
	if keepIDs == nil {
		keepIDs = []string{}
	}
	filter := bson.M{
		"shopDomain": shopDomain,
		"productId":  bson.M{"$nin": keepIDs},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, &domain.StorageError{Op: "prune products", Err: err}
	}
	return result.DeletedCount, nil
}
