package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "museumtix"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Serial identifiers are zero padded to this many digits (BKG-000123).
	DefaultSerialPadding = 6

	// Random public codes draw this many characters from [A-Z0-9] and give
	// up after this many collisions.
	DefaultRandomCodeLength  = 6
	DefaultRandomCodeRetries = 10

	DefaultTicketSaleTopic    = "museumtix.tickets.sold"
	DefaultReservationTopic   = "museumtix.reservations.created"
	DefaultEventsDLQTopic     = "museumtix.events.dlq"
	DefaultRecapConsumerGroup = "museumtix-recap-worker"
)
