package flowRepo

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

// FlowRepository stores pending sign-in flow records. Consume removes the
// record on first use; a missing record means expired or already used.
type FlowRepository interface {
	Insert(flow *models.AuthFlow) error
	Consume(state string) (*models.AuthFlow, error)
}

// MongoFlowRepo implements FlowRepository using MongoDB.
type MongoFlowRepo struct {
	coll *mongo.Collection
}

// NewMongoFlowRepo creates a new instance of FlowRepository using MongoDB.
func NewMongoFlowRepo() FlowRepository {
	coll := database.DB().Collection("auth_flows")
	repo := &MongoFlowRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes adds a TTL index so abandoned flows expire on their own.
func (r *MongoFlowRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_utc", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(600),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert stores a new pending flow record.
func (r *MongoFlowRepo) Insert(flow *models.AuthFlow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	flow.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, flow); err != nil {
		return fmt.Errorf("failed to store auth flow: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the flow record for the state.
// Returns (nil, nil) when no record exists.
func (r *MongoFlowRepo) Consume(state string) (*models.AuthFlow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var flow models.AuthFlow
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": state}).Decode(&flow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to consume auth flow: %w", err)
	}
	return &flow, nil
}
