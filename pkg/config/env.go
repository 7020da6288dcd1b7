package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSerialPadding     = "SERIAL_PADDING"
	EnvRandomCodeLength  = "RANDOM_CODE_LENGTH"
	EnvRandomCodeRetries = "RANDOM_CODE_RETRIES"

	EnvTicketSaleTopic     = "TICKET_SALE_TOPIC"
	EnvReservationTopic    = "RESERVATION_TOPIC"
	EnvEventsDLQTopic      = "EVENTS_DLQ_TOPIC"
	EnvRecapConsumerGroup  = "RECAP_CONSUMER_GROUP"
	EnvEventPublishEnabled = "EVENT_PUBLISH_ENABLED"
)
