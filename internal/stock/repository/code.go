package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	stockerrors "museumtix/internal/stock/errors"
	"museumtix/pkg/config"
	"museumtix/pkg/model"
)

const CodeCollectionName = "Ticket_codes"

type CodeRepository interface {
	InsertMany(ctx context.Context, codes []*model.TicketCode) error
	FindByBatch(ctx context.Context, batchID string) ([]*model.TicketCode, error)
	FindAvailable(ctx context.Context, category model.TicketCategory, limit int) ([]*model.TicketCode, error)
	// ClaimSold flips the given codes to sold, touching only rows that are
	// still available, and reports how many it actually claimed.
	ClaimSold(ctx context.Context, ids []string) (int64, error)
	DeleteByBatch(ctx context.Context, batchID string) (int64, error)
	CountByBatch(ctx context.Context, batchID string) (int64, error)
}

type mongoCodeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCodeRepository(cfg *config.Config) CodeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCodeRepository{
		cfg:        cfg,
		collection: db.Collection(CodeCollectionName),
	}
}

func (r *mongoCodeRepository) InsertMany(ctx context.Context, codes []*model.TicketCode) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(codes))
	for _, code := range codes {
		code.CreatedAt = now
		docs = append(docs, code)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert ticket codes: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok {
			codes[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoCodeRepository) FindByBatch(ctx context.Context, batchID string) ([]*model.TicketCode, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"batch_id": batchID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket codes: %w", err)
	}
	defer cursor.Close(ctx)

	var codes []*model.TicketCode
	if err = cursor.All(ctx, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode ticket codes: %w", err)
	}

	return codes, nil
}

func (r *mongoCodeRepository) FindAvailable(ctx context.Context, category model.TicketCategory, limit int) ([]*model.TicketCode, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"category": category,
		"status":   model.TicketAvailable,
	}
	// Sorted by _id so the same code is never selected twice in one call.
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find available ticket codes: %w", err)
	}
	defer cursor.Close(ctx)

	var codes []*model.TicketCode
	if err = cursor.All(ctx, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode available ticket codes: %w", err)
	}

	return codes, nil
}

func (r *mongoCodeRepository) ClaimSold(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", stockerrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, oid)
	}

	// The status guard makes the claim conditional: a code a concurrent
	// allocation already sold is not matched, and the caller detects the
	// shortfall from the modified count.
	filter := bson.M{
		"_id":    bson.M{"$in": objectIDs},
		"status": model.TicketAvailable,
	}
	update := bson.M{"$set": bson.M{"status": model.TicketSold}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to claim ticket codes: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *mongoCodeRepository) DeleteByBatch(ctx context.Context, batchID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"batch_id": batchID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete ticket codes: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *mongoCodeRepository) CountByBatch(ctx context.Context, batchID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"batch_id": batchID})
	if err != nil {
		return 0, fmt.Errorf("failed to count ticket codes: %w", err)
	}

	return count, nil
}
