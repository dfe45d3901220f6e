package service

import (
	"context"
	"errors"
	"sync"

	restauranterrors "dinehall/internal/restaurants/errors"
	"dinehall/internal/restaurants/repository"
	"dinehall/internal/restaurants/validator"
	"dinehall/pkg/config"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/model"
	"dinehall/pkg/sanitizer"
)

type RestaurantService interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, int64, error)
	Update(ctx context.Context, id string, restaurant *model.Restaurant) error
	Delete(ctx context.Context, id string) error
}

type restaurantService struct {
	repo      repository.RestaurantRepository
	validator *validator.RestaurantValidator
	cfg       *config.Config
}

func NewRestaurantService(
	repo repository.RestaurantRepository,
	validator *validator.RestaurantValidator,
	cfg *config.Config,
) RestaurantService {
	return &restaurantService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *restaurantService) Create(ctx context.Context, restaurant *model.Restaurant) error {
	s.sanitize(restaurant)
	if err := s.validator.Validate(restaurant); err != nil {
		s.cfg.Log.Warn("Restaurant validation failed", "error", err)
		return apperrors.Validation("Invalid restaurant input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, restaurant); err != nil {
		s.cfg.Log.Error("Failed to create restaurant", "error", err)
		return apperrors.Internal("Failed to create restaurant", err)
	}

	s.cfg.Log.Info("Restaurant created successfully", "id", restaurant.ID, "name", restaurant.Name)
	return nil
}

func (s *restaurantService) GetByID(ctx context.Context, id string) (*model.Restaurant, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, restauranterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Restaurant", id)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid restaurant ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve restaurant", err)
	}

	return restaurant, nil
}

func (s *restaurantService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, int64, error) {
	var count int64
	var restaurants []*model.Restaurant
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count restaurants", "error", errCount)
			errCount = apperrors.Internal("Failed to count restaurants", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		restaurants, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list restaurants", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve restaurants", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return restaurants, count, nil
}

func (s *restaurantService) Update(ctx context.Context, id string, restaurant *model.Restaurant) error {
	if id == "" {
		return apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	s.sanitize(restaurant)
	if err := s.validator.Validate(restaurant); err != nil {
		s.cfg.Log.Warn("Restaurant validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid restaurant input", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, restaurant); err != nil {
		if errors.Is(err, restauranterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Restaurant", id)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid restaurant ID format")
		}
		s.cfg.Log.Error("Failed to update restaurant", "id", id, "error", err)
		return apperrors.Internal("Failed to update restaurant", err)
	}

	s.cfg.Log.Info("Restaurant updated successfully", "id", id)
	return nil
}

func (s *restaurantService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Restaurant ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, restauranterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Restaurant", id)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid restaurant ID format")
		}
		s.cfg.Log.Error("Failed to delete restaurant", "id", id, "error", err)
		return apperrors.Internal("Failed to delete restaurant", err)
	}

	s.cfg.Log.Info("Restaurant deleted successfully", "id", id)
	return nil
}

func (s *restaurantService) sanitize(restaurant *model.Restaurant) {
	restaurant.Name = sanitizer.SanitizeName(restaurant.Name)
	restaurant.Address = sanitizer.SanitizeAddress(restaurant.Address)
	restaurant.Email = sanitizer.SanitizeEmail(restaurant.Email)
}
