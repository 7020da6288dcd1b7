package main

import (
	identifierrepo "museumtix/internal/identifier/repository"
	identifiersvc "museumtix/internal/identifier/service"
	pricinghandler "museumtix/internal/pricing/handler"
	pricingrepo "museumtix/internal/pricing/repository"
	pricingsvc "museumtix/internal/pricing/service"
	recaphandler "museumtix/internal/recaps/handler"
	recaprepo "museumtix/internal/recaps/repository"
	recapsvc "museumtix/internal/recaps/service"
	reservationhandler "museumtix/internal/reservations/handler"
	reservationrepo "museumtix/internal/reservations/repository"
	reservationsvc "museumtix/internal/reservations/service"
	reservationvalidator "museumtix/internal/reservations/validator"
	stockhandler "museumtix/internal/stock/handler"
	stockrepo "museumtix/internal/stock/repository"
	stocksvc "museumtix/internal/stock/service"
	stockvalidator "museumtix/internal/stock/validator"
	visitinghourshandler "museumtix/internal/visitinghours/handler"
	"museumtix/pkg/app"
	"museumtix/pkg/config"
	"museumtix/pkg/contracts"
	"museumtix/pkg/kafka"
	kafka_config "museumtix/pkg/kafka/config"
	kafkamiddleware "museumtix/pkg/kafka/middleware"
	"museumtix/pkg/model"
)

const ServiceName = "museumtix"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting museumtix service")

	ticketProducer, reservationProducer := initProducers(cfg)
	if ticketProducer != nil {
		defer ticketProducer.Close()
	}
	if reservationProducer != nil {
		defer reservationProducer.Close()
	}

	handlers := initHandlers(cfg, ticketProducer, reservationProducer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initProducers(cfg *config.Config) (*kafka.Producer, *kafka.Producer) {
	if !cfg.EventPublishEnabled {
		cfg.Log.Info("Event publishing disabled")
		return nil, nil
	}

	kafkaCfg := kafka_config.Load()

	ticketProducer, err := kafka.NewProducer(kafkaCfg, cfg.TicketSaleTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create ticket sale producer", "error", err)
	}
	ticketProducer.Use(kafkamiddleware.ProducerLogging(cfg.Log))

	reservationProducer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create reservation producer", "error", err)
	}
	reservationProducer.Use(kafkamiddleware.ProducerLogging(cfg.Log))

	cfg.Log.Info("Kafka producers initialized",
		"ticket_topic", cfg.TicketSaleTopic,
		"reservation_topic", cfg.ReservationTopic,
	)
	return ticketProducer, reservationProducer
}

func initHandlers(cfg *config.Config, ticketProducer, reservationProducer *kafka.Producer) []contracts.Handler {
	sequenceRepo := identifierrepo.NewMongoSequenceRepository(cfg)
	identifierService := identifiersvc.NewIdentifierService(sequenceRepo, cfg)

	priceRepo := pricingrepo.NewMongoPriceRepository(cfg)
	pricingService := pricingsvc.NewPricingService(priceRepo, cfg)

	batchRepo := stockrepo.NewMongoBatchRepository(cfg)
	codeRepo := stockrepo.NewMongoCodeRepository(cfg)
	stockService := stocksvc.NewStockService(
		batchRepo,
		codeRepo,
		stockvalidator.NewStockValidator(cfg.Log),
		stockPublisher(ticketProducer),
		cfg,
	)

	resValidator := reservationvalidator.NewReservationValidator(cfg.Log)
	handlers := []contracts.Handler{
		stockhandler.NewStockHandler(stockService, cfg.Log),
		pricinghandler.NewPricingHandler(pricingService, cfg.Log),
		visitinghourshandler.NewHoursHandler(cfg.Log),
	}

	for _, route := range variantRoutes() {
		repo := reservationrepo.NewMongoReservationRepository(cfg, route.variant)
		svc := reservationsvc.NewReservationService(
			repo,
			identifierService,
			pricingService,
			resValidator,
			reservationPublisher(reservationProducer),
			cfg,
		)
		handlers = append(handlers, reservationhandler.NewReservationHandler(svc, route.prefix, cfg.Log))
	}

	recapRepo := recaprepo.NewMongoRecapRepository(cfg)
	recapService := recapsvc.NewRecapService(recapRepo, identifierService, cfg)
	handlers = append(handlers, recaphandler.NewRecapHandler(recapService, cfg.Log))

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return handlers
}

type variantRoute struct {
	variant model.ReservationVariant
	prefix  string
}

func variantRoutes() []variantRoute {
	return []variantRoute{
		{model.VariantDirect, "reservations"},
		{model.VariantGroup, "group-bookings"},
		{model.VariantCustom, "custom-reservations"},
	}
}

// Typed-nil producers must become untyped nil interfaces, or the services
// would call Publish on a nil receiver.
func stockPublisher(p *kafka.Producer) stocksvc.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func reservationPublisher(p *kafka.Producer) reservationsvc.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
