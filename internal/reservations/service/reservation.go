package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationerrors "dinehall/internal/reservations/errors"
	"dinehall/internal/reservations/repository"
	"dinehall/internal/reservations/validator"
	restauranterrors "dinehall/internal/restaurants/errors"
	"dinehall/pkg/config"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/model"
	"dinehall/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// RestaurantStore and RoomStore are the slices of the restaurants domain the
// reservation flow needs. The restaurants repositories satisfy them.
type RestaurantStore interface {
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)
}

type RoomStore interface {
	FindByIDAndRestaurant(ctx context.Context, id, restaurantID string) (*model.Room, error)
	FindByRestaurant(ctx context.Context, restaurantID string, limit int, offset int64) ([]*model.Room, error)
	FindByRestaurantAndType(ctx context.Context, restaurantID, roomType string) ([]*model.Room, error)
}

// EventPublisher emits the confirmation event after a reservation commits.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, view model.ReservationView) error
}

type ReservationService interface {
	Create(ctx context.Context, res *model.Reservation) (*model.ReservationView, error)
	AutoAssign(ctx context.Context, req *model.AutoAssignRequest) (*model.ReservationView, error)
	Cancel(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	List(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	FindAvailableRooms(ctx context.Context, restaurantID, roomType string, groupSize int, frame *model.TimeFrame) ([]*model.Room, error)
}

type reservationService struct {
	repo        repository.ReservationRepository
	calendar    repository.RoomCalendarRepository
	restaurants RestaurantStore
	rooms       RoomStore
	publisher   EventPublisher
	validator   *validator.ReservationValidator
	cfg         *config.Config

	now func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	calendar repository.RoomCalendarRepository,
	restaurants RestaurantStore,
	rooms RoomStore,
	publisher EventPublisher,
	validator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:        repo,
		calendar:    calendar,
		restaurants: restaurants,
		rooms:       rooms,
		publisher:   publisher,
		validator:   validator,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, res *model.Reservation) (*model.ReservationView, error) {
	res.ID = ""
	res.Status = model.StatusConfirmed
	res.DinerEmail = sanitizer.SanitizeEmail(res.DinerEmail)

	if err := s.validator.Validate(res); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Invalid reservation input", map[string]any{"error": err.Error()})
	}

	restaurant, err := s.fetchRestaurant(ctx, res.RestaurantID)
	if err != nil {
		return nil, err
	}
	room, err := s.fetchRoom(ctx, res.RoomID, res.RestaurantID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateBookingRules(res, room); err != nil {
		return nil, err
	}

	return s.createLocked(ctx, res, restaurant, room)
}

func (s *reservationService) AutoAssign(ctx context.Context, req *model.AutoAssignRequest) (*model.ReservationView, error) {
	req.DinerEmail = sanitizer.SanitizeEmail(req.DinerEmail)

	if err := s.validator.ValidateAutoAssign(req); err != nil {
		s.cfg.Log.Warn("Auto-assign validation failed", "error", err)
		return nil, apperrors.Validation("Invalid reservation input", map[string]any{"error": err.Error()})
	}
	if err := s.validator.ValidateSlot(req.Date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	restaurant, err := s.fetchRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.FindByRestaurantAndType(ctx, req.RestaurantID, req.RoomType)
	if err != nil {
		s.cfg.Log.Error("Failed to load candidate rooms", "restaurant_id", req.RestaurantID, "error", err)
		return nil, apperrors.Internal("Failed to load candidate rooms", err)
	}

	// First fit: rooms arrive in stable order, take the first one that both
	// passes the room rules and survives the locked conflict check.
	for _, room := range rooms {
		res := &model.Reservation{
			RestaurantID: req.RestaurantID,
			RoomID:       room.ID,
			DinerEmail:   req.DinerEmail,
			Date:         req.Date,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			GroupSize:    req.GroupSize,
			Status:       model.StatusConfirmed,
		}

		if err := s.validator.ValidateRoomRules(res, room); err != nil {
			continue
		}

		view, err := s.createLocked(ctx, res, restaurant, room)
		if err != nil {
			if code := apperrors.AsAppError(err).Code; code == apperrors.CodeRoomNotAvailable || code == apperrors.CodeConflict {
				s.cfg.Log.Info("Auto-assign candidate rejected, trying next room",
					"room_id", room.ID,
					"reason", code,
				)
				continue
			}
			return nil, err
		}
		return view, nil
	}

	return nil, apperrors.RoomNotAvailable(
		fmt.Sprintf("No %s room is available for %s between %s and %s", req.RoomType, req.Date, req.StartTime, req.EndTime),
	)
}

// createLocked serializes the conflict check and insert on the room-day
// calendar lock. The confirmed set is re-read inside the transaction so the
// decision is made against the calendar as it exists after acquisition.
func (s *reservationService) createLocked(ctx context.Context, res *model.Reservation, restaurant *model.Restaurant, room *model.Room) (*model.ReservationView, error) {
	lock, err := s.calendar.Acquire(ctx, res.RoomID, res.Date)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrLockUnavailable) {
			return nil, apperrors.Conflict("Room calendar is busy, please retry")
		}
		if errors.Is(err, reservationerrors.ErrCalendarMissing) {
			return nil, apperrors.NotFound("Room calendar")
		}
		s.cfg.Log.Error("Failed to acquire room calendar lock", "room_id", res.RoomID, "date", res.Date, "error", err)
		return nil, apperrors.Internal("Failed to lock room calendar", err)
	}
	defer func() {
		if releaseErr := s.calendar.Release(ctx, lock); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room calendar lock", "key", lock.Key, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindConfirmedByRoomAndDate(sessCtx, res.RoomID, res.Date)
		if err != nil {
			return apperrors.Internal("Failed to load room calendar", err)
		}
		if err := s.validator.CheckConflicts(res, existing); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, res); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", res.ID,
		"restaurant_id", res.RestaurantID,
		"room_id", res.RoomID,
		"date", res.Date,
		"start_time", res.StartTime,
		"end_time", res.EndTime,
	)

	view := model.NewReservationView(res, restaurant, room)
	s.publishConfirmed(ctx, view)
	return &view, nil
}

// publishConfirmed is fire and forget: the reservation is already committed,
// so a broker outage must not fail the request.
func (s *reservationService) publishConfirmed(ctx context.Context, view model.ReservationView) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReservationConfirmed(ctx, view); err != nil {
		s.cfg.Log.Error("Failed to publish reservation confirmation",
			"id", view.ID,
			"error", err,
		)
	}
}

func (s *reservationService) Cancel(ctx context.Context, id string) error {
	res, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if res.Status == model.StatusCancelled {
		return apperrors.ReservationFailed("Reservation is already cancelled")
	}

	window, err := res.Window()
	if err != nil {
		return apperrors.Internal("Failed to resolve reservation time", err)
	}

	notice := time.Duration(s.cfg.CancelNoticeHours) * time.Hour
	if s.now().Add(notice).After(window.Start) {
		return apperrors.ReservationFailed(
			fmt.Sprintf("Reservations must be cancelled at least %d hours before start time", s.cfg.CancelNoticeHours),
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusConfirmed, model.StatusCancelled); err != nil {
		if errors.Is(err, reservationerrors.ErrStatusConflict) {
			return apperrors.Conflict("Reservation status changed, please retry")
		}
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel reservation", err)
	}

	s.cfg.Log.Info("Reservation cancelled successfully", "id", id)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return res, nil
}

func (s *reservationService) List(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) fetchRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.FindByID(ctx, id)
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

func (s *reservationService) fetchRoom(ctx context.Context, roomID, restaurantID string) (*model.Room, error) {
	room, err := s.rooms.FindByIDAndRestaurant(ctx, roomID, restaurantID)
	if err != nil {
		if errors.Is(err, restauranterrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		if errors.Is(err, restauranterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}
