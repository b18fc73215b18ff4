package hostRepo

import (
	"context"
	"fmt"
	"time"

	"schedulify/database"
	"schedulify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHostRepo implements HostRepository using MongoDB.
type MongoHostRepo struct {
	coll *mongo.Collection
}

// NewMongoHostRepo creates a new instance of HostRepository using MongoDB.
func NewMongoHostRepo() HostRepository {
	coll := database.DB().Collection("hosts")
	repo := &MongoHostRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoHostRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "oid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoHostRepo) findOne(filter bson.M) (*models.Host, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var host models.Host
	if err := r.coll.FindOne(ctx, filter).Decode(&host); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch host: %w", err)
	}
	return &host, nil
}

// Create inserts a new host document.
func (r *MongoHostRepo) Create(host *models.Host) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	host.CreatedAt = now
	host.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, host); err != nil {
		return fmt.Errorf("failed to create host: %w", err)
	}
	return nil
}

// GetByOID retrieves a host by its Microsoft account ID.
func (r *MongoHostRepo) GetByOID(oid string) (*models.Host, error) {
	return r.findOne(bson.M{"oid": oid})
}

// GetBySlug retrieves a host by its booking-link slug.
func (r *MongoHostRepo) GetBySlug(slug string) (*models.Host, error) {
	return r.findOne(bson.M{"slug": slug})
}

// GetByEmail retrieves a host by its email address.
func (r *MongoHostRepo) GetByEmail(email string) (*models.Host, error) {
	return r.findOne(bson.M{"email": email})
}

func (r *MongoHostRepo) updateFields(oid string, set bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set["updated_at"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"oid": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update host with oid %s: %w", oid, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("host with oid %s not found", oid)
	}
	return nil
}

// UpdateIdentity refreshes the identity fields captured at sign-in.
func (r *MongoHostRepo) UpdateIdentity(oid, email, name, slug string) error {
	return r.updateFields(oid, bson.M{"email": email, "name": name, "slug": slug})
}

// UpdateSettings replaces the availability policy and video link.
func (r *MongoHostRepo) UpdateSettings(oid string, policy models.AvailabilityPolicy, videoLink string) error {
	return r.updateFields(oid, bson.M{"policy": policy, "video_link": videoLink})
}

// UpdateTokenCache persists refreshed OAuth token material (write-through).
func (r *MongoHostRepo) UpdateTokenCache(oid, cache string) error {
	return r.updateFields(oid, bson.M{"token_cache": cache})
}

// SlugTaken reports whether another host already owns the slug.
func (r *MongoHostRepo) SlugTaken(slug, oid string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug, "oid": bson.M{"$ne": oid}})
	if err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return count > 0, nil
}
