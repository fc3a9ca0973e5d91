package catalog

import (
	"context"
	"fmt"
	"time"

	"ecommerce-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var bannerSort = options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})

// FindActiveBanners returns active hero banners for a locale, ordered by
// sortOrder. An empty locale returns actives across all locales.
func (c *Catalog) FindActiveBanners(ctx context.Context, locale string) ([]models.HeroBanner, error) {
	filter := bson.M{"isActive": true}
	if locale != "" {
		filter["locale"] = locale
	}
	return c.findBanners(ctx, filter)
}

// FindAllBanners returns every hero banner, including inactive ones.
func (c *Catalog) FindAllBanners(ctx context.Context) ([]models.HeroBanner, error) {
	return c.findBanners(ctx, bson.M{})
}

func (c *Catalog) findBanners(ctx context.Context, filter bson.M) ([]models.HeroBanner, error) {
	cur, err := c.banners.Find(ctx, filter, bannerSort)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	banners := []models.HeroBanner{}
	if err := cur.All(ctx, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// FindBannerByID retrieves one hero banner.
func (c *Catalog) FindBannerByID(ctx context.Context, id string) (*models.HeroBanner, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}

	var b models.HeroBanner
	err = c.banners.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// InsertBanner stores a new hero banner and fills in its ID and timestamps.
func (c *Catalog) InsertBanner(ctx context.Context, b *models.HeroBanner) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}

	_, err := c.banners.InsertOne(ctx, b)
	return err
}

// ReplaceBanner overwrites a hero banner by ID.
func (c *Catalog) ReplaceBanner(ctx context.Context, id string, b *models.HeroBanner) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}

	b.ID = oid
	b.UpdatedAt = time.Now().UTC()

	res, err := c.banners.ReplaceOne(ctx, bson.M{"_id": oid}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteBanner removes a hero banner by ID.
func (c *Catalog) DeleteBanner(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}

	res, err := c.banners.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("banner %s: %w", id, ErrNotFound)
	}
	return nil
}
