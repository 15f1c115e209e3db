package main

import (
	bookingshandler "roombook/internal/bookings/handler"
	bookingsrepo "roombook/internal/bookings/repository"
	bookingsservice "roombook/internal/bookings/service"
	bookingsvalidator "roombook/internal/bookings/validator"
	departmentshandler "roombook/internal/departments/handler"
	departmentsrepo "roombook/internal/departments/repository"
	departmentsservice "roombook/internal/departments/service"
	"roombook/internal/events"
	reportshandler "roombook/internal/reports/handler"
	reportsrepo "roombook/internal/reports/repository"
	reportsservice "roombook/internal/reports/service"
	roomshandler "roombook/internal/rooms/handler"
	roomsrepo "roombook/internal/rooms/repository"
	roomsservice "roombook/internal/rooms/service"
	roomsvalidator "roombook/internal/rooms/validator"
	usershandler "roombook/internal/users/handler"
	usersrepo "roombook/internal/users/repository"
	usersservice "roombook/internal/users/service"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/contracts"
	"roombook/pkg/jwt"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
)

const ServiceName = "roombook-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	publisher, producer := initEvents(cfg)
	if producer != nil {
		defer producer.Close()
	}

	cfg.Log.Info("Starting room booking service")
	serverApp := app.NewApplication(cfg, tokens)
	serverApp.SetApp(initHandlers(cfg, tokens, publisher)...)
	serverApp.Run()
}

func initEvents(cfg *config.Config) (*events.Publisher, *kafka.Producer) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Event publishing disabled")
		return nil, nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.TopicBookingEvents)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Event publishing enabled", "topic", events.TopicBookingEvents, "brokers", kafkaCfg.Brokers)
	return events.NewPublisher(producer, ServiceName, cfg.Log), producer
}

func initHandlers(cfg *config.Config, tokens *jwt.Service, publisher *events.Publisher) []contracts.Handler {
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewSlotLockRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)
	departmentRepo := departmentsrepo.NewMongoDepartmentRepository(cfg)
	reportRepo := reportsrepo.NewMongoReportRepository(cfg)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	roomService := roomsservice.NewRoomService(
		roomRepo,
		bookingRepo,
		roomsvalidator.NewRoomValidator(cfg.Log),
		cfg,
	)
	userService := usersservice.NewUserService(userRepo, bookingRepo, tokens, cfg)
	departmentService := departmentsservice.NewDepartmentService(departmentRepo, cfg)
	reportService := reportsservice.NewReportService(reportRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		bookingshandler.NewBookingHandler(bookingService, cfg),
		roomshandler.NewRoomHandler(roomService, cfg),
		usershandler.NewUserHandler(userService, cfg),
		departmentshandler.NewDepartmentHandler(departmentService, cfg),
		reportshandler.NewReportHandler(reportService, cfg),
	}
}
