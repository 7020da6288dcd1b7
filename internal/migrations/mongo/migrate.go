package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"museumtix/internal/migrations/mongo/validators"
)

var (
	SequenceCounterIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "_id", Value: 1}}},
	}

	StockBatchIndexes = []mongo.IndexModel{
		// One batch per category; duplicate creates must fail at the store.
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	TicketCodeIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "batch_id", Value: 1}}},
	}

	// ReservationIndexes guard both uniqueness domains: the public
	// identifier and the one-booking-per-slot rule. Application-level
	// pre-checks are a fast path only; these indexes are the authority.
	ReservationIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "public_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "visiting_date", Value: 1},
				{Key: "visiting_hour", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	TicketPriceIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	SalesRecapIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running museumtix Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Sequence_counters": {
			Indexes:   SequenceCounterIndexes,
			Validator: validators.SequenceCounterValidator,
		},
		"Ticket_stock_batches": {
			Indexes:   StockBatchIndexes,
			Validator: validators.StockBatchValidator,
		},
		"Ticket_codes": {
			Indexes:   TicketCodeIndexes,
			Validator: validators.TicketCodeValidator,
		},
		"Reservations": {
			Indexes:   ReservationIndexes,
			Validator: validators.ReservationValidator,
		},
		"Group_bookings": {
			Indexes:   ReservationIndexes,
			Validator: validators.ReservationValidator,
		},
		"Custom_reservations": {
			Indexes:   ReservationIndexes,
			Validator: validators.ReservationValidator,
		},
		"Ticket_prices": {
			Indexes:   TicketPriceIndexes,
			Validator: validators.TicketPriceValidator,
		},
		"Sales_recaps": {
			Indexes:   SalesRecapIndexes,
			Validator: validators.SalesRecapValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
