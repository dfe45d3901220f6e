package main

import (
	"dinehall/internal/events"
	"dinehall/internal/reservations/handler"
	"dinehall/internal/reservations/repository"
	"dinehall/internal/reservations/service"
	"dinehall/internal/reservations/validator"
	restaurantrepo "dinehall/internal/restaurants/repository"
	"dinehall/pkg/app"
	"dinehall/pkg/config"
	kafka_config "dinehall/pkg/kafka/config"

	"github.com/joho/godotenv"
)

const ServiceName = "reservations"

func main() {
	// .env is only present in local development
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	publisher, err := events.NewProducer(kafka_config.Load(), cfg.ReservationTopic, cfg.ReservationDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event producer", "error", err)
		}
	}()

	reservationService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher service.EventPublisher) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log, cfg)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	calendarRepo := repository.NewMongoRoomCalendarRepository(cfg)
	restaurantRepo := restaurantrepo.NewMongoRestaurantRepository(cfg)
	roomRepo := restaurantrepo.NewMongoRoomRepository(cfg)

	reservationService := service.NewReservationService(
		reservationRepo,
		calendarRepo,
		restaurantRepo,
		roomRepo,
		publisher,
		reservationValidator,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
