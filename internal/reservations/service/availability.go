package service

import (
	"context"

	"dinehall/pkg/config"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/model"
)

// FindAvailableRooms lists the rooms of a restaurant that could host the
// requested slot. This is a read-only preview: it takes no locks, so a room
// reported free can still be lost to a concurrent booking. A group size of
// zero skips the capacity filter.
func (s *reservationService) FindAvailableRooms(ctx context.Context, restaurantID, roomType string, groupSize int, frame *model.TimeFrame) ([]*model.Room, error) {
	if groupSize < 0 {
		return nil, apperrors.InvalidInput("Group size cannot be negative")
	}
	if err := s.validator.ValidateTimeFrame(frame); err != nil {
		return nil, apperrors.Validation("Invalid time frame", map[string]any{"error": err.Error()})
	}
	if err := s.validator.ValidateSlot(frame.Date, frame.StartTime, frame.EndTime); err != nil {
		return nil, err
	}

	if _, err := s.fetchRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	var rooms []*model.Room
	var err error
	if roomType != "" {
		rooms, err = s.rooms.FindByRestaurantAndType(ctx, restaurantID, roomType)
	} else {
		rooms, err = s.rooms.FindByRestaurant(ctx, restaurantID, config.DefaultPaginationLimit, 0)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to load rooms", "restaurant_id", restaurantID, "error", err)
		return nil, apperrors.Internal("Failed to load rooms", err)
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		probe := &model.Reservation{
			RestaurantID: restaurantID,
			RoomID:       room.ID,
			Date:         frame.Date,
			StartTime:    frame.StartTime,
			EndTime:      frame.EndTime,
			GroupSize:    groupSize,
			Status:       model.StatusConfirmed,
		}
		if err := s.validator.ValidateRoomRules(probe, room); err != nil {
			continue
		}

		existing, err := s.repo.FindConfirmedByRoomAndDate(ctx, room.ID, frame.Date)
		if err != nil {
			s.cfg.Log.Error("Failed to load room calendar", "room_id", room.ID, "error", err)
			return nil, apperrors.Internal("Failed to load room calendar", err)
		}
		if err := s.validator.CheckConflicts(probe, existing); err != nil {
			continue
		}

		available = append(available, room)
	}

	return available, nil
}
