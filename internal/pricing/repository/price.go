package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pricingerrors "museumtix/internal/pricing/errors"
	"museumtix/pkg/config"
	"museumtix/pkg/model"
)

const (
	CollectionName = "Ticket_prices"
)

type PriceRepository interface {
	Upsert(ctx context.Context, price *model.TicketPrice) error
	FindByCategory(ctx context.Context, category model.TicketCategory) (*model.TicketPrice, error)
	FindAll(ctx context.Context) ([]*model.TicketPrice, error)
}

type mongoPriceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPriceRepository(cfg *config.Config) PriceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPriceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPriceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPriceRepository) Upsert(ctx context.Context, price *model.TicketPrice) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	price.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"category": price.Category}
	update := bson.M{"$set": bson.M{
		"category":   price.Category,
		"price":      price.Price,
		"updated_at": price.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert ticket price: %w", err)
	}
	return nil
}

func (r *mongoPriceRepository) FindByCategory(ctx context.Context, category model.TicketCategory) (*model.TicketPrice, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var price model.TicketPrice
	err := r.collection.FindOne(ctx, bson.M{"category": category}).Decode(&price)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pricingerrors.ErrPriceNotFound
		}
		return nil, fmt.Errorf("failed to find ticket price: %w", err)
	}

	return &price, nil
}

func (r *mongoPriceRepository) FindAll(ctx context.Context) ([]*model.TicketPrice, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket prices: %w", err)
	}
	defer cursor.Close(ctx)

	var prices []*model.TicketPrice
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode ticket prices: %w", err)
	}

	return prices, nil
}
