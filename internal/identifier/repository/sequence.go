package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	identifiererrors "museumtix/internal/identifier/errors"
	"museumtix/pkg/config"
	"museumtix/pkg/model"
)

const CollectionName = "Sequence_counters"

type SequenceRepository interface {
	// Next atomically increments the named counter and returns the new
	// value. A missing counter is created at zero first, so the first call
	// returns 1.
	Next(ctx context.Context, name string) (int64, error)
}

type mongoSequenceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSequenceRepository(cfg *config.Config) SequenceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSequenceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": name}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter model.SequenceCounter
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", identifiererrors.ErrCounterUnavailable, name, err)
	}

	return counter.Seq, nil
}

// withTimeout bounds a storage call unless the context already carries a
// transaction session, which must not be wrapped.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}
