package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique-index violations.
var ErrDuplicate = errors.New("duplicate")

// Catalog wraps the MongoDB collections backing the product catalog,
// category filter schemas, and hero banners.
type Catalog struct {
	client     *mongo.Client
	products   *mongo.Collection
	categories *mongo.Collection
	banners    *mongo.Collection
}

// NewCatalog connects to MongoDB and prepares the collections. Prices
// are stored as Decimal128 via the registry in codec.go.
func NewCatalog(uri, dbName string) (*Catalog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRegistry(newRegistry()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	c := &Catalog{
		client:     client,
		products:   db.Collection("products"),
		categories: db.Collection("category_filters"),
		banners:    db.Collection("hero_banners"),
	}

	if err := c.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return c, nil
}

func (c *Catalog) ensureIndexes(ctx context.Context) error {
	_, err := c.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = c.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects the MongoDB client.
func (c *Catalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
