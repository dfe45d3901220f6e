package service

import (
	"context"
	"errors"

	restauranterrors "dinehall/internal/restaurants/errors"
	"dinehall/internal/restaurants/repository"
	"dinehall/internal/restaurants/validator"
	"dinehall/pkg/config"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/model"
	"dinehall/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, restaurantID string, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, room *model.Room) error
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo           repository.RoomRepository
	restaurantRepo repository.RestaurantRepository
	validator      *validator.RestaurantValidator
	cfg            *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	restaurantRepo repository.RestaurantRepository,
	validator *validator.RestaurantValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:           repo,
		restaurantRepo: restaurantRepo,
		validator:      validator,
		cfg:            cfg,
	}
}

func (s *roomService) Create(ctx context.Context, restaurantID string, room *model.Room) error {
	room.RestaurantID = restaurantID
	room.Name = sanitizer.SanitizeName(room.Name)
	if len(room.OpenDays) == 0 {
		room.OpenDays = model.AllWeekdays()
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "restaurant_id", restaurantID, "error", err)
		return apperrors.Validation("Invalid room input", map[string]any{"error": err.Error()})
	}

	if _, err := s.restaurantRepo.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, restauranterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Restaurant", restaurantID)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid restaurant ID format")
		}
		return apperrors.Internal("Failed to verify restaurant", err)
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "restaurant_id", restaurantID, "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"restaurant_id", restaurantID,
		"room_type", room.RoomType,
	)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, restauranterrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.Room, int64, error) {
	if restaurantID == "" {
		return nil, 0, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	rooms, err := s.repo.FindByRestaurant(ctx, restaurantID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "restaurant_id", restaurantID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve rooms", err)
	}

	count, err := s.repo.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		s.cfg.Log.Error("Failed to count rooms", "restaurant_id", restaurantID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count rooms", err)
	}

	return rooms, count, nil
}

func (s *roomService) Update(ctx context.Context, id string, room *model.Room) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	room.RestaurantID = existing.RestaurantID
	room.Name = sanitizer.SanitizeName(room.Name)
	if len(room.OpenDays) == 0 {
		room.OpenDays = model.AllWeekdays()
	}

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid room input", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, room); err != nil {
		if errors.Is(err, restauranterrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, restauranterrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}
