package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	stockerrors "museumtix/internal/stock/errors"
	"museumtix/pkg/config"
	mongotx "museumtix/pkg/db/mongo"
	"museumtix/pkg/model"
)

const BatchCollectionName = "Ticket_stock_batches"

type BatchRepository interface {
	Insert(ctx context.Context, batch *model.StockBatch) error
	FindByID(ctx context.Context, id string) (*model.StockBatch, error)
	FindByCategory(ctx context.Context, category model.TicketCategory) (*model.StockBatch, error)
	FindAll(ctx context.Context) ([]*model.StockBatch, error)
	SetTotal(ctx context.Context, id string, total int) error
	IncTotal(ctx context.Context, id string, delta int) error
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBatchRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBatchRepository(cfg *config.Config) BatchRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBatchRepository{
		cfg:        cfg,
		collection: db.Collection(BatchCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBatchRepository) Insert(ctx context.Context, batch *model.StockBatch) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	batch.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, batch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return stockerrors.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create stock batch: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		batch.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBatchRepository) FindByID(ctx context.Context, id string) (*model.StockBatch, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", stockerrors.ErrInvalidID, id)
	}

	var batch model.StockBatch
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&batch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, stockerrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to find stock batch: %w", err)
	}

	return &batch, nil
}

func (r *mongoBatchRepository) FindByCategory(ctx context.Context, category model.TicketCategory) (*model.StockBatch, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var batch model.StockBatch
	err := r.collection.FindOne(ctx, bson.M{"category": category}).Decode(&batch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, stockerrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to find stock batch by category: %w", err)
	}

	return &batch, nil
}

func (r *mongoBatchRepository) FindAll(ctx context.Context) ([]*model.StockBatch, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list stock batches: %w", err)
	}
	defer cursor.Close(ctx)

	var batches []*model.StockBatch
	if err = cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode stock batches: %w", err)
	}

	return batches, nil
}

func (r *mongoBatchRepository) SetTotal(ctx context.Context, id string, total int) error {
	return r.updateTotal(ctx, id, bson.M{
		"$set": bson.M{
			"total_count": total,
			"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
		},
	})
}

func (r *mongoBatchRepository) IncTotal(ctx context.Context, id string, delta int) error {
	return r.updateTotal(ctx, id, bson.M{
		"$inc": bson.M{"total_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
	})
}

func (r *mongoBatchRepository) updateTotal(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", stockerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update stock batch total: %w", err)
	}
	if result.MatchedCount == 0 {
		return stockerrors.ErrBatchNotFound
	}

	return nil
}

func (r *mongoBatchRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", stockerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete stock batch: %w", err)
	}
	if result.DeletedCount == 0 {
		return stockerrors.ErrBatchNotFound
	}

	return nil
}

func (r *mongoBatchRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
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
