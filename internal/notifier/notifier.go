package notifier

import (
	"context"
	"fmt"

	"dinehall/internal/events"
	"dinehall/pkg/kafka"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"
)

// Notifier consumes reservation confirmation events and dispatches diner
// notifications. Delivery is currently log based; the handler is where a
// mail or SMS provider would plug in.
type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle processes one confirmation event. Unknown event types are committed
// without action so a shared topic does not wedge the consumer.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	if eventType := msg.GetEventType(); eventType != events.EventReservationConfirmed {
		n.log.Warn("Skipping unexpected event type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	var view model.ReservationView
	if err := msg.DecodeValue(&view); err != nil {
		return fmt.Errorf("failed to decode reservation event: %w", err)
	}

	n.log.Info("Reservation confirmation notified",
		"event_id", msg.GetEventID(),
		"reservation_id", view.ID,
		"diner_email", view.DinerEmail,
		"restaurant", view.RestaurantName,
		"room", view.RoomName,
		"date", view.Date,
		"start_time", view.StartTime,
		"end_time", view.EndTime,
	)
	return nil
}
