package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	recaperrors "museumtix/internal/recaps/errors"
	"museumtix/pkg/config"
	"museumtix/pkg/model"
)

const (
	CollectionName = "Sales_recaps"
)

type RecapRepository interface {
	// IncrementSales folds one sale into the recap for date, creating the
	// document with code on first sale of the day. The upsert keeps
	// concurrent workers from double-creating.
	IncrementSales(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error
	FindByDate(ctx context.Context, date string) (*model.SalesRecap, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.SalesRecap, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
}

type mongoRecapRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRecapRepository(cfg *config.Config) RecapRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRecapRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRecapRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRecapRepository) IncrementSales(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"date": date}
	update := bson.M{
		"$inc": bson.M{
			"category_counts." + string(category): quantity,
			"total_sold":                          quantity,
		},
		"$setOnInsert": bson.M{
			"date": date,
			"code": code,
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update sales recap: %w", err)
	}
	return nil
}

func (r *mongoRecapRepository) FindByDate(ctx context.Context, date string) (*model.SalesRecap, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var recap model.SalesRecap
	err := r.collection.FindOne(ctx, bson.M{"date": date}).Decode(&recap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, recaperrors.ErrRecapNotFound
		}
		return nil, fmt.Errorf("failed to find sales recap: %w", err)
	}

	return &recap, nil
}

func (r *mongoRecapRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.SalesRecap, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales recaps: %w", err)
	}
	defer cursor.Close(ctx)

	var recaps []*model.SalesRecap
	if err := cursor.All(ctx, &recaps); err != nil {
		return nil, fmt.Errorf("failed to decode sales recaps: %w", err)
	}

	return recaps, nil
}

func (r *mongoRecapRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check recap code: %w", err)
	}
	return count > 0, nil
}
