package main

import (
	"dinehall/internal/restaurants/handler"
	"dinehall/internal/restaurants/repository"
	"dinehall/internal/restaurants/service"
	"dinehall/internal/restaurants/validator"
	"dinehall/pkg/app"
	"dinehall/pkg/config"

	"github.com/joho/godotenv"
)

const ServiceName = "restaurants"

func main() {
	// .env is only present in local development
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Restaurants service")

	restaurantService, roomService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewRestaurantHandler(restaurantService, roomService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.RestaurantService, service.RoomService) {
	restaurantValidator := validator.NewRestaurantValidator(cfg.Log)
	restaurantRepo := repository.NewMongoRestaurantRepository(cfg)
	roomRepo := repository.NewMongoRoomRepository(cfg)

	restaurantService := service.NewRestaurantService(restaurantRepo, restaurantValidator, cfg)
	roomService := service.NewRoomService(roomRepo, restaurantRepo, restaurantValidator, cfg)

	cfg.Log.Info("Restaurant services initialized", "database", cfg.MongoDatabaseName)
	return restaurantService, roomService
}
